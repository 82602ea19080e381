package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig agrupa el secreto y la ventana de expiracion, fijos durante toda la vida del proceso.
type TokenConfig struct {
	Secret     string
	Expiration time.Duration
}

// TokenStatus es el resultado de validar un token.
type TokenStatus int

const (
	TokenValid TokenStatus = iota
	TokenMalformed
	TokenSignatureMismatch
	TokenExpired
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenMalformed:
		return "malformed"
	case TokenSignatureMismatch:
		return "signature_mismatch"
	case TokenExpired:
		return "expired"
	default:
		return "unknown"
	}
}

var (
	ErrTokenSecretMissing = errors.New("jwt secret not configured")
	ErrEmptySubject       = errors.New("jwt subject is empty")
	ErrTokenMalformed     = errors.New("jwt malformed")
	ErrTokenInvalid       = errors.New("jwt invalid")
)

// TokenService emite y valida tokens JWT firmados con HMAC.
type TokenService struct {
	secret     []byte
	expiration time.Duration
	now        Clock
}

func NewTokenService(cfg TokenConfig, clock Clock) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, ErrTokenSecretMissing
	}
	if cfg.Expiration < 0 {
		cfg.Expiration = 0
	}
	return &TokenService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		now:        clockOrSystem(clock),
	}, nil
}

// Issue firma un token con sub=subject, iat=now y exp=now+expiracion.
// Las fechas se guardan con precision de segundos.
func (s *TokenService) Issue(subject string, now time.Time) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", ErrEmptySubject
	}
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(s.secret)
}

// ParseSubject lee el subject sin verificar firma ni expiracion.
// Solo debe usarse sobre tokens que ya pasaron Validate.
func (s *TokenService) ParseSubject(token string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", ErrTokenMalformed
	}
	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}

// Validate verifica la firma y luego que now < exp. Nunca devuelve error: cualquier fallo
// se reduce a uno de los estados no validos.
func (s *TokenService) Validate(token string, now time.Time) TokenStatus {
	if strings.TrimSpace(token) == "" {
		return TokenMalformed
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	var claims jwt.RegisteredClaims
	_, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return TokenSignatureMismatch
	case errors.Is(err, jwt.ErrTokenExpired):
		return TokenExpired
	default:
		return TokenMalformed
	}
	if claims.Subject == "" {
		return TokenMalformed
	}
	return TokenValid
}

// Authenticate valida el token contra el reloj del servicio y devuelve el subject.
// El motivo concreto del rechazo no se expone.
func (s *TokenService) Authenticate(token string) (string, error) {
	if s.Validate(token, s.now()) != TokenValid {
		return "", ErrTokenInvalid
	}
	subject, err := s.ParseSubject(token)
	if err != nil {
		return "", ErrTokenInvalid
	}
	return subject, nil
}

// Now expone el reloj configurado.
func (s *TokenService) Now() time.Time {
	return s.now()
}
