package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL        string `env:"DATABASE_URL,required"`
	DBAutoMigrate      bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	JWTSecret          string `env:"JWT_SECRET,required,notEmpty"`
	JWTExpirationMs    int64  `env:"JWT_EXPIRATION_MS" envDefault:"86400000"`
	BcryptCost         int    `env:"BCRYPT_COST" envDefault:"10"`
	RedisAddr          string `env:"REDIS_ADDR"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	RedisDB            int    `env:"REDIS_DB" envDefault:"0"`
	LoginMaxAttempts   int    `env:"LOGIN_MAX_ATTEMPTS" envDefault:"10"`
	LoginWindowMinutes int    `env:"LOGIN_WINDOW_MINUTES" envDefault:"15"`
	SessionLockTTLMs   int64  `env:"SESSION_LOCK_TTL_MS" envDefault:"5000"`
}

// Los claims iat/exp tienen precision de segundos; una ventana menor podria expirar al emitirse.
const minJWTExpirationMs = 1000

var ErrInvalidJWTExpiration = errors.New("JWT_EXPIRATION_MS must be at least 1000")

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.JWTExpirationMs < minJWTExpirationMs {
		return nil, ErrInvalidJWTExpiration
	}
	return &cfg, nil
}

// JWTExpiration devuelve la ventana de expiración de los tokens.
func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWTExpirationMs) * time.Millisecond
}

func (c *Config) LoginWindow() time.Duration {
	return time.Duration(c.LoginWindowMinutes) * time.Minute
}

func (c *Config) SessionLockTTL() time.Duration {
	return time.Duration(c.SessionLockTTLMs) * time.Millisecond
}
