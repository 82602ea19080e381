package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"yoga-api/internal/domain"
	"yoga-api/internal/service"
)

const principalKey = "auth_principal"

// TokenAuthenticator valida un token y devuelve su subject.
type TokenAuthenticator interface {
	Authenticate(token string) (string, error)
}

// PrincipalLoader resuelve un subject al principal asociado.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, username string) (domain.Principal, error)
}

// JWTAuthMiddleware valida el bearer token y guarda el principal en el contexto.
func JWTAuthMiddleware(logger *zap.Logger, tokens TokenAuthenticator, principals PrincipalLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil || principals == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		subject, err := tokens.Authenticate(token)
		if err != nil {
			logger.Debug("rejected token", zap.Error(err))
			abortUnauthorized(c)
			return
		}

		principal, err := principals.LoadPrincipal(c.Request.Context(), subject)
		if err != nil {
			if !errors.Is(err, service.ErrNotFound) {
				logger.Error("load principal failed", zap.Error(err))
			}
			abortUnauthorized(c)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// GetPrincipal obtiene el principal autenticado desde el contexto.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	return token, token != ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}
