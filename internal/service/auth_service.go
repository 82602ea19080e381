package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"yoga-api/internal/domain"
	"yoga-api/internal/repository"
)

// Authenticator verifica credenciales y devuelve el principal autenticado.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (domain.Principal, error)
}

// PasswordAuthenticator valida email y contraseña contra el repositorio de usuarios.
type PasswordAuthenticator struct {
	users  repository.UserRepository
	hasher PasswordHasher
}

func NewPasswordAuthenticator(users repository.UserRepository, hasher PasswordHasher) *PasswordAuthenticator {
	return &PasswordAuthenticator{users: users, hasher: hasher}
}

func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) (domain.Principal, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.Principal{}, ErrInvalidCredentials
	}
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Principal{}, ErrInvalidCredentials
		}
		return domain.Principal{}, err
	}
	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		return domain.Principal{}, err
	}
	return user.Principal(), nil
}

type LoginResult struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Admin     bool   `json:"admin"`
}

type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// AuthService coordina login y registro.
type AuthService struct {
	logger        *zap.Logger
	authenticator Authenticator
	users         repository.UserRepository
	hasher        PasswordHasher
	tokens        *TokenService
	limiter       LoginRateLimiter
	now           Clock
}

func NewAuthService(
	logger *zap.Logger,
	authenticator Authenticator,
	users repository.UserRepository,
	hasher PasswordHasher,
	tokens *TokenService,
	limiter LoginRateLimiter,
	clock Clock,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		logger:        logger,
		authenticator: authenticator,
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		limiter:       limiter,
		now:           clockOrSystem(clock),
	}
}

// Login autentica, emite el token y resuelve el flag admin desde el registro de usuario.
// Solo los intentos fallidos cuentan para el limite; un login correcto lo reinicia.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if s.authenticator == nil || s.users == nil || s.tokens == nil {
		return LoginResult{}, errors.New("auth service not configured")
	}
	email = normalizeEmail(email)
	if s.limiter != nil && !s.limiter.Allow(email) {
		s.logger.Warn("login rate limited", zap.String("email", email))
		return LoginResult{}, ErrRateLimited
	}

	res, err := s.login(ctx, email, password)
	if s.limiter != nil {
		switch {
		case err == nil:
			s.limiter.Reset(email)
		case errors.Is(err, ErrAuthenticationFailed):
			s.limiter.Fail(email)
		}
	}
	return res, err
}

func (s *AuthService) login(ctx context.Context, email, password string) (LoginResult, error) {
	principal, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}

	token, err := s.tokens.Issue(principal.Username, s.now())
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, principal.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("authenticated principal without user record", zap.String("username", principal.Username))
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	return LoginResult{
		Token:     token,
		Type:      "Bearer",
		ID:        principal.ID,
		Username:  principal.Username,
		FirstName: principal.FirstName,
		LastName:  principal.LastName,
		Admin:     user.Admin,
	}, nil
}

// Register crea un usuario no admin. La verificacion de email ocurre antes de cualquier escritura.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	if s.users == nil || s.hasher == nil {
		return errors.New("auth service not configured")
	}
	email := normalizeEmail(input.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, domain.User{
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
		Admin:        false,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailTaken
		}
		return err
	}
	s.logger.Info("user registered", zap.Int64("user_id", created.ID))
	return nil
}

// LoadPrincipal resuelve el subject de un token al principal correspondiente.
func (s *AuthService) LoadPrincipal(ctx context.Context, username string) (domain.Principal, error) {
	user, err := s.users.GetByEmail(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Principal{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return domain.Principal{}, err
	}
	return user.Principal(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
