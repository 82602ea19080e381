package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"yoga-api/internal/config"
	"yoga-api/internal/db"
	apihttp "yoga-api/internal/http"
	"yoga-api/internal/repository"
	"yoga-api/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	teacherRepo := repository.NewPgTeacherRepository(pool)

	tokenSvc, err := service.NewTokenService(service.TokenConfig{
		Secret:     cfg.JWTSecret,
		Expiration: cfg.JWTExpiration(),
	}, service.SystemClock)
	if err != nil {
		logger.Fatal("jwt config", zap.Error(err))
	}

	var (
		loginLimiter  = service.NewLoginRateLimiter(cfg.LoginWindow(), cfg.LoginMaxAttempts, service.SystemClock)
		sessionLocker = service.NewMemorySessionLocker()
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory limiter and locks", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, cfg.LoginWindow(), cfg.LoginMaxAttempts)
			sessionLocker = service.NewRedisSessionLocker(redisClient, cfg.SessionLockTTL())
		}
		cancel()
	}

	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	authSvc := service.NewAuthService(
		logger,
		service.NewPasswordAuthenticator(userRepo, hasher),
		userRepo,
		hasher,
		tokenSvc,
		loginLimiter,
		service.SystemClock,
	)
	sessionSvc := service.NewSessionService(logger, sessionRepo, userRepo, sessionLocker)
	teacherSvc := service.NewTeacherService(teacherRepo)
	userSvc := service.NewUserService(logger, userRepo)

	router := apihttp.NewRouter(
		logger,
		apihttp.JWTAuthMiddleware(logger, tokenSvc, authSvc),
		apihttp.NewAuthHandler(logger, authSvc),
		apihttp.NewSessionHandler(logger, sessionSvc),
		apihttp.NewTeacherHandler(logger, teacherSvc),
		apihttp.NewUserHandler(logger, userSvc),
		apihttp.NewHealthHandler(logger, pool),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := serve(ctx, logger, server, 10*time.Second); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
