package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound indica que el registro solicitado no existe.
var ErrNotFound = errors.New("record not found")

// ErrInvalidReference indica una clave foranea inexistente (teacher_id, user_id).
var ErrInvalidReference = errors.New("invalid reference")

// ErrDuplicate indica una violacion de unicidad.
var ErrDuplicate = errors.New("duplicate record")

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

func translateNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
