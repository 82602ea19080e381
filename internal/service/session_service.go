package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"yoga-api/internal/domain"
	"yoga-api/internal/repository"
)

// SessionService gestiona sesiones y la participacion de usuarios.
type SessionService struct {
	logger   *zap.Logger
	sessions repository.SessionRepository
	users    repository.UserRepository
	locker   SessionLocker
}

func NewSessionService(logger *zap.Logger, sessions repository.SessionRepository, users repository.UserRepository, locker SessionLocker) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = NewMemorySessionLocker()
	}
	return &SessionService{
		logger:   logger,
		sessions: sessions,
		users:    users,
		locker:   locker,
	}
}

func (s *SessionService) FindAll(ctx context.Context) ([]domain.Session, error) {
	return s.sessions.FindAll(ctx)
}

func (s *SessionService) GetByID(ctx context.Context, id int64) (domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Session{}, ErrSessionNotFound
		}
		return domain.Session{}, err
	}
	return session, nil
}

func (s *SessionService) Create(ctx context.Context, session domain.Session) (domain.Session, error) {
	session.ID = 0
	session.NormalizeParticipants()
	created, err := s.sessions.Create(ctx, session)
	if err != nil {
		return domain.Session{}, translateReference(err)
	}
	return created, nil
}

// Update guarda el registro completo con el id de la ruta.
func (s *SessionService) Update(ctx context.Context, id int64, session domain.Session) (domain.Session, error) {
	session.ID = id
	session.NormalizeParticipants()
	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("lock session: %w", err)
	}
	defer unlock()

	saved, err := s.sessions.Save(ctx, session)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Session{}, ErrSessionNotFound
		}
		return domain.Session{}, translateReference(err)
	}
	return saved, nil
}

func (s *SessionService) Delete(ctx context.Context, id int64) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// Participate agrega al usuario. Orden de chequeos: sesion, usuario, pertenencia.
func (s *SessionService) Participate(ctx context.Context, sessionID, userID int64) error {
	unlock, err := s.locker.Lock(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("lock session: %w", err)
	}
	defer unlock()

	session, err := s.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !session.AddParticipant(userID) {
		return ErrAlreadyParticipating
	}
	if _, err := s.sessions.Save(ctx, session); err != nil {
		return err
	}
	s.logger.Info("user joined session", zap.Int64("session_id", sessionID), zap.Int64("user_id", userID))
	return nil
}

// NoLongerParticipate quita al usuario. No verifica que el usuario exista.
func (s *SessionService) NoLongerParticipate(ctx context.Context, sessionID, userID int64) error {
	unlock, err := s.locker.Lock(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("lock session: %w", err)
	}
	defer unlock()

	session, err := s.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if !session.RemoveParticipant(userID) {
		return ErrAlreadyNotParticipating
	}
	if _, err := s.sessions.Save(ctx, session); err != nil {
		return err
	}
	s.logger.Info("user left session", zap.Int64("session_id", sessionID), zap.Int64("user_id", userID))
	return nil
}

// translateReference convierte una referencia inexistente en error de validacion.
func translateReference(err error) error {
	if errors.Is(err, repository.ErrInvalidReference) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}
