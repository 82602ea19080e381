package service

import (
	"errors"
	"fmt"
)

// Categorias de error que la capa HTTP traduce a codigos de estado.
var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrForbidden            = errors.New("forbidden")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

var (
	ErrSessionNotFound         = fmt.Errorf("session %w", ErrNotFound)
	ErrUserNotFound            = fmt.Errorf("user %w", ErrNotFound)
	ErrTeacherNotFound         = fmt.Errorf("teacher %w", ErrNotFound)
	ErrAlreadyParticipating    = fmt.Errorf("%w: user already participates in session", ErrConflict)
	ErrAlreadyNotParticipating = fmt.Errorf("%w: user does not participate in session", ErrConflict)
	ErrEmailTaken              = fmt.Errorf("%w: email already taken", ErrConflict)
	ErrInvalidCredentials      = fmt.Errorf("%w: invalid credentials", ErrAuthenticationFailed)
	ErrRateLimited             = errors.New("rate limited")
)
