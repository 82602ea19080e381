package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"yoga-api/internal/service"
)

// AuthHandler expone login y registro.
type AuthHandler struct {
	logger  *zap.Logger
	authSvc *service.AuthService
}

func NewAuthHandler(logger *zap.Logger, authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{logger: logger, authSvc: authSvc}
}

// Login maneja POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		h.logger.Warn("invalid login request")
		return
	}

	res, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, h.logger, "login", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Register maneja POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req signupRequest
	if !bindAndValidate(c, &req) {
		h.logger.Warn("invalid register request")
		return
	}

	if err := h.authSvc.Register(c.Request.Context(), req.toInput()); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Error: Email is already taken!"})
			return
		}
		writeServiceError(c, h.logger, "register", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully!"})
}
