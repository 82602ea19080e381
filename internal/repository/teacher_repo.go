package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"yoga-api/internal/domain"
)

type TeacherRepository interface {
	FindAll(ctx context.Context) ([]domain.Teacher, error)
	GetByID(ctx context.Context, id int64) (domain.Teacher, error)
}

type PgTeacherRepository struct {
	pool *pgxpool.Pool
}

func NewPgTeacherRepository(pool *pgxpool.Pool) *PgTeacherRepository {
	return &PgTeacherRepository{pool: pool}
}

func (r *PgTeacherRepository) FindAll(ctx context.Context) ([]domain.Teacher, error) {
	const query = `
		SELECT id, first_name, last_name, created_at, updated_at
		FROM teachers
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teachers := []domain.Teacher{}
	for rows.Next() {
		var t domain.Teacher
		if err := rows.Scan(&t.ID, &t.FirstName, &t.LastName, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teachers, nil
}

func (r *PgTeacherRepository) GetByID(ctx context.Context, id int64) (domain.Teacher, error) {
	const query = `
		SELECT id, first_name, last_name, created_at, updated_at
		FROM teachers
		WHERE id = $1
	`
	var t domain.Teacher
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.FirstName, &t.LastName, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Teacher{}, translateNoRows(err)
	}
	return t, nil
}
