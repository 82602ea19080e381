package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"yoga-api/internal/domain"
)

// SessionRepository persiste sesiones junto con su conjunto de participantes.
type SessionRepository interface {
	FindAll(ctx context.Context) ([]domain.Session, error)
	GetByID(ctx context.Context, id int64) (domain.Session, error)
	Create(ctx context.Context, session domain.Session) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) (domain.Session, error)
	Delete(ctx context.Context, id int64) error
}

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

const sessionSelect = `
	SELECT s.id, s.name, s.date, s.description, s.teacher_id, s.created_at, s.updated_at,
		COALESCE(array_agg(p.user_id ORDER BY p.user_id) FILTER (WHERE p.user_id IS NOT NULL), '{}')::bigint[]
	FROM sessions s
	LEFT JOIN participate p ON p.session_id = s.id
`

func (r *PgSessionRepository) FindAll(ctx context.Context) ([]domain.Session, error) {
	rows, err := r.pool.Query(ctx, sessionSelect+` GROUP BY s.id ORDER BY s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *PgSessionRepository) GetByID(ctx context.Context, id int64) (domain.Session, error) {
	return getSession(ctx, r.pool, id)
}

func (r *PgSessionRepository) Create(ctx context.Context, session domain.Session) (domain.Session, error) {
	var created domain.Session
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
			INSERT INTO sessions (name, date, description, teacher_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING id
		`
		var id int64
		if err := tx.QueryRow(ctx, query,
			session.Name,
			session.Date,
			session.Description,
			session.TeacherID,
			time.Now().UTC(),
		).Scan(&id); err != nil {
			return err
		}
		if err := replaceParticipants(ctx, tx, id, session.Users); err != nil {
			return err
		}
		var err error
		created, err = getSession(ctx, tx, id)
		return err
	})
	if err != nil {
		return domain.Session{}, translateWriteError(err)
	}
	return created, nil
}

// Save actualiza el registro completo y reemplaza los participantes en una sola transaccion.
func (r *PgSessionRepository) Save(ctx context.Context, session domain.Session) (domain.Session, error) {
	var saved domain.Session
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
			UPDATE sessions
			SET name = $2, date = $3, description = $4, teacher_id = $5, updated_at = $6
			WHERE id = $1
		`
		tag, err := tx.Exec(ctx, query,
			session.ID,
			session.Name,
			session.Date,
			session.Description,
			session.TeacherID,
			time.Now().UTC(),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if err := replaceParticipants(ctx, tx, session.ID, session.Users); err != nil {
			return err
		}
		saved, err = getSession(ctx, tx, session.ID)
		return err
	})
	if err != nil {
		return domain.Session{}, translateWriteError(err)
	}
	return saved, nil
}

func (r *PgSessionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getSession(ctx context.Context, q querier, id int64) (domain.Session, error) {
	s, err := scanSession(q.QueryRow(ctx, sessionSelect+` WHERE s.id = $1 GROUP BY s.id`, id))
	if err != nil {
		return domain.Session{}, translateNoRows(err)
	}
	return s, nil
}

func replaceParticipants(ctx context.Context, tx pgx.Tx, sessionID int64, users []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM participate WHERE session_id = $1`, sessionID); err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}
	const query = `
		INSERT INTO participate (session_id, user_id)
		SELECT $1, u FROM unnest($2::bigint[]) AS u
		ON CONFLICT DO NOTHING
	`
	_, err := tx.Exec(ctx, query, sessionID, users)
	return err
}

func scanSession(row rowScanner) (domain.Session, error) {
	var s domain.Session
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Date,
		&s.Description,
		&s.TeacherID,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.Users,
	)
	return s, err
}
