package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// NewRouter configura el router de Gin con middlewares y rutas de la API.
func NewRouter(
	logger *zap.Logger,
	authMW gin.HandlerFunc,
	authH *AuthHandler,
	sessionH *SessionHandler,
	teacherH *TeacherHandler,
	userH *UserHandler,
	healthH *HealthHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", healthH.Healthz)

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/register", authH.Register)

	protected := api.Group("", authMW)

	sessions := protected.Group("/session")
	sessions.GET("", sessionH.FindAll)
	sessions.POST("", sessionH.Create)
	sessions.GET("/:id", sessionH.FindByID)
	sessions.PUT("/:id", sessionH.Update)
	sessions.DELETE("/:id", sessionH.Delete)
	sessions.POST("/:id/participate/:userId", sessionH.Participate)
	sessions.DELETE("/:id/participate/:userId", sessionH.NoLongerParticipate)

	teachers := protected.Group("/teacher")
	teachers.GET("", teacherH.FindAll)
	teachers.GET("/:id", teacherH.FindByID)

	users := protected.Group("/user")
	users.GET("/:id", userH.FindByID)
	users.DELETE("/:id", userH.Delete)

	return r
}

// requestIDMiddleware propaga X-Request-ID o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("request_id", c.GetString(requestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
