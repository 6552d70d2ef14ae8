package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/nutrirec/internal/services"
	"github.com/temcen/nutrirec/pkg/models"
)

// SessionStore keeps live sessions in process memory. Sessions are lost on restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]services.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]services.Session)}
}

func (s *SessionStore) Get(id uuid.UUID) (services.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *SessionStore) Put(session services.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *SessionStore) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

type SessionHandler struct {
	engine    services.SessionEngineInterface
	store     *SessionStore
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewSessionHandler(engine services.SessionEngineInterface, store *SessionStore, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		engine:    engine,
		store:     store,
		validator: validator.New(),
		logger:    logger,
	}
}

// lookup resolves the :id path parameter and writes the error response on failure.
func (h *SessionHandler) lookup(c *gin.Context) (services.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "Invalid session ID format")
		return services.Session{}, false
	}

	session, ok := h.store.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found")
		return services.Session{}, false
	}
	return session, true
}

func (h *SessionHandler) bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST_BODY", "Invalid request body format")
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR",
				"Field '"+fe.Field()+"' failed on the '"+fe.Tag()+"' rule")
			return false
		}
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}

// Create starts a new session awaiting a workflow choice.
func (h *SessionHandler) Create(c *gin.Context) {
	session := h.engine.NewSession()
	h.store.Put(session)

	h.logger.WithField("session_id", session.ID).Debug("Session created")
	c.JSON(http.StatusCreated, session)
}

func (h *SessionHandler) Get(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_SESSION_ID", "Invalid session ID format")
		return
	}
	if !h.store.Delete(id) {
		respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) Choose(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	var req models.ChoiceRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	workflow, err := services.ParseWorkflow(req.Choice)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	next, err := h.engine.Choose(session, workflow)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.store.Put(next)
	c.JSON(http.StatusOK, next)
}

func (h *SessionHandler) SubmitFoodName(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	var req models.FoodNameRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	next, err := h.engine.SubmitFoodName(session, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.store.Put(next)
	c.JSON(http.StatusOK, next)
}

func (h *SessionHandler) SubmitPreferences(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	var req models.ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST_BODY", "Invalid request body format")
		return
	}

	prefs, err := ParsePreferences(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	next, err := h.engine.SubmitPreferences(c.Request.Context(), session, prefs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.store.Put(next)
	c.JSON(http.StatusOK, next)
}

// Recommendations lists foods similar to the anchor of a finished session.
func (h *SessionHandler) Recommendations(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}

	topN := 0
	if topNStr := c.Query("top_n"); topNStr != "" {
		parsed, err := strconv.Atoi(topNStr)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "INVALID_TOP_N", "top_n must be a positive integer")
			return
		}
		topN = parsed
	}

	response, err := h.engine.SessionRecommendations(c.Request.Context(), session, topN)
	if err != nil {
		if !isUserError(err) {
			h.logger.WithError(err).WithField("session_id", session.ID).Error("Failed to generate session recommendations")
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
