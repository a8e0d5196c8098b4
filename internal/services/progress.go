package services

import (
	"context"
	"coursestudio/internal/logger"
	"coursestudio/internal/repository"

	"go.uber.org/zap"
)

type ProgressService interface {
	Set(ctx context.Context, userID, courseID, sectionID string, completed bool) error
}

type progressService struct {
	courses  repository.CourseRepo
	sections repository.SectionRepo
	progress repository.ProgressRepo
}

func NewProgressService(courses repository.CourseRepo, sections repository.SectionRepo, progress repository.ProgressRepo) ProgressService {
	return &progressService{courses: courses, sections: sections, progress: progress}
}

// Set отмечает раздел пройденным или снимает отметку. Чужие неопубликованные разделы не видны.
func (s *progressService) Set(ctx context.Context, userID, courseID, sectionID string, completed bool) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	sec, err := s.sections.GetByID(ctx, courseID, sectionID)
	if err != nil {
		return err
	}
	if course.InstructorID != userID && (!course.IsPublished || !sec.IsPublished) {
		return ErrNotFound
	}

	if err := s.progress.Upsert(ctx, userID, sectionID, completed); err != nil {
		logger.WithCtx(ctx).Error("Ошибка сохранения прогресса (repo)", zap.String("section_id", sectionID), zap.Error(err))
		return err
	}
	logger.WithCtx(ctx).Info("Прогресс сохранён", zap.String("section_id", sectionID), zap.Bool("completed", completed))
	return nil
}
