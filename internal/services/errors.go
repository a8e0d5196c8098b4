package services

import (
	"context"
	"coursestudio/internal/models"
	"coursestudio/internal/repository"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrNotFound        = repository.ErrNotFound
	ErrForbidden       = errors.New("нет доступа")
	ErrValidation      = errors.New("ошибка валидации")
	ErrIncomplete      = errors.New("не заполнены обязательные поля")
	ErrInvalidReorder  = errors.New("некорректный порядок разделов")
	ErrInvalidCategory = errors.New("подкатегория не относится к категории")
)

func validateMinRunes(field, value string, min int) error {
	if l := utf8.RuneCountInString(strings.TrimSpace(value)); l < min {
		return fmt.Errorf("%w: %s должно содержать не менее %d символов", ErrValidation, field, min)
	}
	return nil
}

func incompleteError(c models.Completion) error {
	return fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(c.Missing, ", "))
}

// ownedCourse загружает курс и проверяет, что он принадлежит преподавателю.
func ownedCourse(ctx context.Context, repo repository.CourseRepo, instructorID, courseID string) (*models.Course, error) {
	c, err := repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c.InstructorID != instructorID {
		return nil, ErrForbidden
	}
	return c, nil
}
