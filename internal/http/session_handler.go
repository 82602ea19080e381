package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"yoga-api/internal/domain"
	"yoga-api/internal/service"
)

// SessionHandler expone el CRUD de sesiones y la participacion.
type SessionHandler struct {
	logger     *zap.Logger
	sessionSvc *service.SessionService
}

func NewSessionHandler(logger *zap.Logger, sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{logger: logger, sessionSvc: sessionSvc}
}

// FindAll maneja GET /api/session.
func (h *SessionHandler) FindAll(c *gin.Context) {
	sessions, err := h.sessionSvc.FindAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, "list sessions", err)
		return
	}
	out := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

// FindByID maneja GET /api/session/:id.
func (h *SessionHandler) FindByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	session, err := h.sessionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, "get session", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session))
}

// Create maneja POST /api/session.
func (h *SessionHandler) Create(c *gin.Context) {
	var req sessionRequest
	if !bindAndValidate(c, &req) {
		h.logger.Warn("invalid create session request")
		return
	}
	created, err := h.sessionSvc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		writeServiceError(c, h.logger, "create session", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(created))
}

// Update maneja PUT /api/session/:id.
func (h *SessionHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req sessionRequest
	if !bindAndValidate(c, &req) {
		h.logger.Warn("invalid update session request", zap.Int64("session_id", id))
		return
	}
	saved, err := h.sessionSvc.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		writeServiceError(c, h.logger, "update session", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(saved))
}

// Delete maneja DELETE /api/session/:id.
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.sessionSvc.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, h.logger, "delete session", err)
		return
	}
	c.Status(http.StatusOK)
}

// Participate maneja POST /api/session/:id/participate/:userId.
func (h *SessionHandler) Participate(c *gin.Context) {
	sessionID, userID, ok := participationParams(c)
	if !ok {
		return
	}
	if err := h.sessionSvc.Participate(c.Request.Context(), sessionID, userID); err != nil {
		writeServiceError(c, h.logger, "participate", err)
		return
	}
	c.Status(http.StatusOK)
}

// NoLongerParticipate maneja DELETE /api/session/:id/participate/:userId.
func (h *SessionHandler) NoLongerParticipate(c *gin.Context) {
	sessionID, userID, ok := participationParams(c)
	if !ok {
		return
	}
	if err := h.sessionSvc.NoLongerParticipate(c.Request.Context(), sessionID, userID); err != nil {
		writeServiceError(c, h.logger, "leave session", err)
		return
	}
	c.Status(http.StatusOK)
}

func participationParams(c *gin.Context) (int64, int64, bool) {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return 0, 0, false
	}
	userID, ok := idParam(c, "userId")
	if !ok {
		return 0, 0, false
	}
	return sessionID, userID, true
}

func sessionResponse(s domain.Session) domain.Session {
	if s.Users == nil {
		s.Users = []int64{}
	}
	return s
}
