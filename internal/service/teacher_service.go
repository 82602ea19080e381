package service

import (
	"context"
	"errors"

	"yoga-api/internal/domain"
	"yoga-api/internal/repository"
)

type TeacherService struct {
	teachers repository.TeacherRepository
}

func NewTeacherService(teachers repository.TeacherRepository) *TeacherService {
	return &TeacherService{teachers: teachers}
}

func (s *TeacherService) FindAll(ctx context.Context) ([]domain.Teacher, error) {
	return s.teachers.FindAll(ctx)
}

func (s *TeacherService) GetByID(ctx context.Context, id int64) (domain.Teacher, error) {
	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Teacher{}, ErrTeacherNotFound
		}
		return domain.Teacher{}, err
	}
	return teacher, nil
}
