package services

import (
	"context"
	"coursestudio/internal/logger"
	"coursestudio/internal/models"
	"coursestudio/internal/repository"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type ResourceService interface {
	Create(ctx context.Context, instructorID, courseID, sectionID string, req models.CreateResourceRequest) (*models.Resource, error)
	Delete(ctx context.Context, instructorID, courseID, sectionID, id string) error
}

type resourceService struct {
	courses   repository.CourseRepo
	sections  repository.SectionRepo
	resources repository.ResourceRepo
}

func NewResourceService(courses repository.CourseRepo, sections repository.SectionRepo, resources repository.ResourceRepo) ResourceService {
	return &resourceService{courses: courses, sections: sections, resources: resources}
}

func (s *resourceService) ownedSection(ctx context.Context, instructorID, courseID, sectionID string) error {
	if _, err := ownedCourse(ctx, s.courses, instructorID, courseID); err != nil {
		return err
	}
	_, err := s.sections.GetByID(ctx, courseID, sectionID)
	return err
}

func (s *resourceService) Create(ctx context.Context, instructorID, courseID, sectionID string, req models.CreateResourceRequest) (*models.Resource, error) {
	log := logger.WithCtx(ctx)
	log.Info("Добавление материала", zap.String("section_id", sectionID), zap.String("name", req.Name))

	if err := validateMinRunes("название", req.Name, 2); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.FileURL) == "" {
		return nil, fmt.Errorf("%w: файл обязателен", ErrValidation)
	}
	if err := s.ownedSection(ctx, instructorID, courseID, sectionID); err != nil {
		return nil, err
	}

	res, err := s.resources.Create(ctx, &models.Resource{
		SectionID: sectionID,
		Name:      strings.TrimSpace(req.Name),
		FileURL:   strings.TrimSpace(req.FileURL),
	})
	if err != nil {
		log.Error("Ошибка добавления материала (repo)", zap.Error(err))
		return nil, err
	}
	return res, nil
}

func (s *resourceService) Delete(ctx context.Context, instructorID, courseID, sectionID, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление материала", zap.String("section_id", sectionID), zap.String("id", id))

	if err := s.ownedSection(ctx, instructorID, courseID, sectionID); err != nil {
		return err
	}
	if err := s.resources.Delete(ctx, sectionID, id); err != nil {
		log.Warn("Материал не удалён", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
