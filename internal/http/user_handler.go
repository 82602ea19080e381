package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"yoga-api/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios.
type UserHandler struct {
	logger  *zap.Logger
	userSvc *service.UserService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, userSvc *service.UserService) *UserHandler {
	return &UserHandler{logger: logger, userSvc: userSvc}
}

// FindByID maneja GET /api/user/:id.
func (h *UserHandler) FindByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.logger, "get user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete maneja DELETE /api/user/:id. Solo el propio usuario puede borrarse.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	principal, ok := GetPrincipal(c)
	if !ok {
		abortUnauthorized(c)
		return
	}
	if err := h.userSvc.Delete(c.Request.Context(), principal, id); err != nil {
		writeServiceError(c, h.logger, "delete user", err)
		return
	}
	c.Status(http.StatusOK)
}
