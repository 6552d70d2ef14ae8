package validation

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names
const (
	FoodCatalogSchema            = "food-catalog"
	RecommendationResponseSchema = "recommendation-response"
)

//go:embed schemas/*.json
var builtinSchemas embed.FS

var schemaFiles = map[string]string{
	FoodCatalogSchema:            "food-catalog.json",
	RecommendationResponseSchema: "recommendation-response.json",
}

// SchemaValidator handles JSON schema validation for catalog documents and API payloads
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaValidator creates a validator with the built-in schemas loaded.
// The schemas are compiled into the binary, so a load failure is a programming error.
func NewSchemaValidator() *SchemaValidator {
	sv := &SchemaValidator{
		schemas: make(map[string]*gojsonschema.Schema),
	}
	if err := sv.LoadSchemaFromFS(builtinSchemas, "schemas"); err != nil {
		panic(err)
	}
	return sv
}

// ValidateFoodCatalog validates a JSON food catalog document
func (sv *SchemaValidator) ValidateFoodCatalog(data []byte) *ValidationResult {
	return sv.validate(FoodCatalogSchema, data)
}

// ValidateRecommendationResponse validates a recommendation response against its JSON schema
func (sv *SchemaValidator) ValidateRecommendationResponse(data interface{}) *ValidationResult {
	return sv.validate(RecommendationResponseSchema, data)
}

// validate performs the actual validation against a named schema
func (sv *SchemaValidator) validate(schemaName string, data interface{}) *ValidationResult {
	schema, exists := sv.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Message: fmt.Sprintf("Schema '%s' not found", schemaName),
				Code:    "SCHEMA_NOT_FOUND",
			}},
		}
	}

	var documentLoader gojsonschema.JSONLoader
	switch v := data.(type) {
	case string:
		documentLoader = gojsonschema.NewStringLoader(v)
	case []byte:
		documentLoader = gojsonschema.NewBytesLoader(v)
	default:
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			return &ValidationResult{
				Valid: false,
				Errors: []ValidationError{{
					Field:   "data",
					Message: fmt.Sprintf("Failed to marshal data to JSON: %v", err),
					Code:    "JSON_MARSHAL_ERROR",
				}},
			}
		}
		documentLoader = gojsonschema.NewBytesLoader(jsonBytes)
	}

	result, err := schema.Validate(documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "validation",
				Message: fmt.Sprintf("Validation error: %v", err),
				Code:    "VALIDATION_ERROR",
			}},
		}
	}

	validationResult := &ValidationResult{
		Valid:  result.Valid(),
		Errors: make([]ValidationError, 0),
	}

	if !result.Valid() {
		for _, err := range result.Errors() {
			validationResult.Errors = append(validationResult.Errors, ValidationError{
				Field:   err.Field(),
				Message: err.Description(),
				Code:    "VALIDATION_ERROR",
				Value:   err.Value(),
				Context: err.Context().String(),
			})
		}
	}

	return validationResult
}

// ValidationResult represents the result of a validation operation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Value   interface{} `json:"value,omitempty"`
	Context string      `json:"context,omitempty"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", ve.Field, ve.Message)
}

// Err folds a failed result into a single error; nil when valid.
func (vr *ValidationResult) Err() error {
	if vr.Valid {
		return nil
	}
	if len(vr.Errors) == 0 {
		return fmt.Errorf("validation failed")
	}
	return fmt.Errorf("%w (and %d more)", vr.Errors[0], len(vr.Errors)-1)
}

// SchemaExists checks if a schema with the given name is loaded
func (sv *SchemaValidator) SchemaExists(name string) bool {
	_, exists := sv.schemas[name]
	return exists
}

// LoadSchemaFromFS loads schemas from an embedded filesystem
func (sv *SchemaValidator) LoadSchemaFromFS(fsys fs.FS, schemaDir string) error {
	for name, filename := range schemaFiles {
		// embed.FS paths always use forward slashes
		schemaBytes, err := fs.ReadFile(fsys, path.Join(schemaDir, filename))
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", filename, err)
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
		if err != nil {
			return fmt.Errorf("failed to load schema %s: %w", name, err)
		}

		sv.schemas[name] = schema
	}

	return nil
}
