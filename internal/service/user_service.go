package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"yoga-api/internal/domain"
	"yoga-api/internal/repository"
)

// UserService coordina reglas de negocio para usuarios.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{logger: logger, users: users}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// Delete verifica existencia, luego propiedad, y recien entonces borra.
func (s *UserService) Delete(ctx context.Context, principal domain.Principal, id int64) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AuthorizeDelete(principal.Username, user.Email); err != nil {
		s.logger.Warn("user delete forbidden",
			zap.Int64("user_id", id),
			zap.Int64("principal_id", principal.ID),
		)
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
