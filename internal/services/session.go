package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/pkg/models"
)

type SessionState int

const (
	AwaitChoice SessionState = iota
	AwaitFoodName
	AwaitPreferences
	Done
)

func (s SessionState) String() string {
	switch s {
	case AwaitChoice:
		return "await_choice"
	case AwaitFoodName:
		return "await_food_name"
	case AwaitPreferences:
		return "await_preferences"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Workflow int

const (
	WorkflowUnset Workflow = iota
	Browse
	Direct
	Preference
)

func (w Workflow) String() string {
	switch w {
	case Browse:
		return "browse"
	case Direct:
		return "direct"
	case Preference:
		return "preference"
	default:
		return ""
	}
}

func (w Workflow) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// ParseWorkflow accepts the menu number or the workflow name.
func ParseWorkflow(choice string) (Workflow, error) {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "1", "browse":
		return Browse, nil
	case "2", "direct":
		return Direct, nil
	case "3", "preference":
		return Preference, nil
	default:
		return WorkflowUnset, fmt.Errorf("%w: unknown choice %q", ErrInvalidInput, choice)
	}
}

// Outcome reports what the last transition produced.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeNotFound
	OutcomeAnchored
	OutcomeNoCandidates
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotFound:
		return "not_found"
	case OutcomeAnchored:
		return "anchored"
	case OutcomeNoCandidates:
		return "no_candidates"
	default:
		return "pending"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Session is one walk through the choose-food protocol. Transitions take a
// Session value and return the next one; nothing is stored by the engine.
// Row indices in Scope refer to the catalog snapshot pinned at creation.
type Session struct {
	ID          uuid.UUID           `json:"id"`
	State       SessionState        `json:"state"`
	Workflow    Workflow            `json:"workflow,omitempty"`
	Outcome     Outcome             `json:"outcome"`
	Options     []models.FoodRecord `json:"options,omitempty"`
	Suggestions []models.Suggestion `json:"suggestions,omitempty"`
	Preferences models.Preferences  `json:"preferences,omitempty"`
	Anchor      *models.FoodRecord  `json:"anchor,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	Scope []int `json:"-"`
	store *catalog.Store
}

// NewSession starts a session in AwaitChoice over the active catalog.
func (o *RecommendationOrchestrator) NewSession() Session {
	now := time.Now()
	return Session{
		ID:        uuid.New(),
		State:     AwaitChoice,
		CreatedAt: now,
		UpdatedAt: now,
		store:     o.catalog.Current(),
	}
}

// Choose selects the workflow. Browse samples the configured number of
// records and restricts name resolution to them; ErrInsufficientData when
// the catalog is smaller than that.
func (o *RecommendationOrchestrator) Choose(s Session, workflow Workflow) (Session, error) {
	if s.State != AwaitChoice {
		return s, fmt.Errorf("%w: choose in state %s", ErrInvalidTransition, s.State)
	}
	store := o.sessionStore(s)

	next := s
	next.Workflow = workflow
	next.Outcome = OutcomePending
	next.store = store
	next.UpdatedAt = time.Now()

	switch workflow {
	case Browse:
		size := o.config.SampleSize
		if size <= 0 {
			size = store.Len()
		}
		// A catalog smaller than the sample fails like ListSample does
		indices, err := o.sampleIndices(store, size)
		if err != nil {
			return s, fmt.Errorf("browse sample of %d: %w", size, err)
		}
		options := make([]models.FoodRecord, len(indices))
		for i, idx := range indices {
			options[i] = store.Record(idx)
		}
		next.Scope = indices
		next.Options = options
		next.State = AwaitFoodName
	case Direct:
		next.Scope = nil
		next.Options = nil
		next.State = AwaitFoodName
	case Preference:
		next.State = AwaitPreferences
	default:
		return s, fmt.Errorf("%w: unknown workflow", ErrInvalidInput)
	}

	return next, nil
}

// SubmitFoodName resolves name within the session scope. No match leaves
// the session waiting for another name with OutcomeNotFound; a match
// anchors the session on the first suggestion.
func (o *RecommendationOrchestrator) SubmitFoodName(s Session, name string) (Session, error) {
	if s.State != AwaitFoodName {
		return s, fmt.Errorf("%w: food name in state %s", ErrInvalidTransition, s.State)
	}
	store := o.sessionStore(s)

	next := s
	next.store = store
	next.UpdatedAt = time.Now()

	name = strings.TrimSpace(name)
	var suggestions []models.Suggestion
	if name != "" {
		suggestions = o.resolver.Suggest(store, name, s.Scope)
	}

	if len(suggestions) == 0 {
		next.Suggestions = nil
		next.Outcome = OutcomeNotFound
		return next, nil
	}

	anchor := suggestions[0].Record
	next.Suggestions = suggestions
	next.Anchor = &anchor
	next.Outcome = OutcomeAnchored
	next.State = Done
	return next, nil
}

// SubmitPreferences runs the preference-first anchor selection. The session
// is Done either way; without an anchor the outcome is OutcomeNoCandidates.
func (o *RecommendationOrchestrator) SubmitPreferences(ctx context.Context, s Session, prefs models.Preferences) (Session, error) {
	if s.State != AwaitPreferences {
		return s, fmt.Errorf("%w: preferences in state %s", ErrInvalidTransition, s.State)
	}
	store := o.sessionStore(s)

	next := s
	next.store = store
	next.Preferences = prefs
	next.State = Done
	next.UpdatedAt = time.Now()

	started := time.Now()
	anchor, err := o.preferenceAnchor(store, prefs)
	o.metrics.RecordOperation("preference_anchor", started, err)
	switch {
	case errors.Is(err, ErrNoCandidates):
		next.Outcome = OutcomeNoCandidates
		return next, nil
	case err != nil:
		return s, err
	}

	next.Anchor = &anchor
	next.Outcome = OutcomeAnchored
	return next, nil
}

// SessionRecommendations recommends against the anchor of a finished session.
func (o *RecommendationOrchestrator) SessionRecommendations(ctx context.Context, s Session, topN int) (*models.RecommendationResponse, error) {
	if s.State != Done {
		return nil, fmt.Errorf("%w: recommendations in state %s", ErrInvalidTransition, s.State)
	}
	if s.Anchor == nil {
		return nil, ErrNoCandidates
	}
	return o.Recommend(ctx, s.Anchor.Name, topN, nil)
}

func (o *RecommendationOrchestrator) sessionStore(s Session) *catalog.Store {
	if s.store != nil {
		return s.store
	}
	return o.catalog.Current()
}
