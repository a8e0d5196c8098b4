package services

import (
	"context"
	"coursestudio/internal/logger"
	"coursestudio/internal/models"
	"coursestudio/internal/repository"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type CourseService interface {
	Create(ctx context.Context, instructorID string, req models.CreateCourseRequest) (*models.Course, error)
	List(ctx context.Context, instructorID string) ([]*models.Course, error)
	Get(ctx context.Context, instructorID, id string) (*models.Course, error)
	Update(ctx context.Context, instructorID, id string, req models.UpdateCourseRequest) (*models.Course, error)
	SetPublish(ctx context.Context, instructorID, id string, publish bool) (*models.Course, error)
	Delete(ctx context.Context, instructorID, id string) error
}

type courseService struct {
	courses    repository.CourseRepo
	sections   repository.SectionRepo
	categories repository.CategoryRepo
	video      *VideoService
	events     Emitter
	policy     *bluemonday.Policy
}

func NewCourseService(
	courses repository.CourseRepo,
	sections repository.SectionRepo,
	categories repository.CategoryRepo,
	video *VideoService,
	events Emitter,
) CourseService {
	return &courseService{
		courses:    courses,
		sections:   sections,
		categories: categories,
		video:      video,
		events:     events,
		policy:     descriptionPolicy(),
	}
}

func (s *courseService) checkCategory(ctx context.Context, categoryID, subCategoryID string) error {
	if strings.TrimSpace(categoryID) == "" || strings.TrimSpace(subCategoryID) == "" {
		return fmt.Errorf("%w: категория и подкатегория обязательны", ErrValidation)
	}
	ok, err := s.categories.SubCategoryBelongs(ctx, categoryID, subCategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCategory
	}
	return nil
}

func (s *courseService) Create(ctx context.Context, instructorID string, req models.CreateCourseRequest) (*models.Course, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание курса",
		zap.String("title", strings.TrimSpace(req.Title)),
		zap.String("category_id", req.CategoryID),
		zap.String("sub_category_id", req.SubCategoryID),
	)

	if err := validateMinRunes("название", req.Title, 2); err != nil {
		log.Warn("Валидация не пройдена: название", zap.Error(err))
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID, req.SubCategoryID); err != nil {
		log.Warn("Валидация не пройдена: категория", zap.Error(err))
		return nil, err
	}

	created, err := s.courses.Create(ctx, &models.Course{
		InstructorID:  instructorID,
		Title:         strings.TrimSpace(req.Title),
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
	})
	if err != nil {
		log.Error("Ошибка создания курса (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Курс создан", zap.String("id", created.ID))
	return created, nil
}

func (s *courseService) List(ctx context.Context, instructorID string) ([]*models.Course, error) {
	list, err := s.courses.ListByInstructor(ctx, instructorID)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения списка курсов (repo)", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *courseService) Get(ctx context.Context, instructorID, id string) (*models.Course, error) {
	c, err := ownedCourse(ctx, s.courses, instructorID, id)
	if err != nil {
		return nil, err
	}
	sections, err := s.sections.ListByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Sections = make([]models.Section, 0, len(sections))
	for _, sec := range sections {
		c.Sections = append(c.Sections, *sec)
	}
	return c, nil
}

func (s *courseService) Update(ctx context.Context, instructorID, id string, req models.UpdateCourseRequest) (*models.Course, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление курса", zap.String("id", id))

	c, err := ownedCourse(ctx, s.courses, instructorID, id)
	if err != nil {
		log.Warn("Курс для обновления недоступен", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		if err := validateMinRunes("название", *req.Title, 2); err != nil {
			return nil, err
		}
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Subtitle != nil {
		c.Subtitle = strings.TrimSpace(*req.Subtitle)
	}
	if req.Description != nil {
		c.Description = sanitizeDescription(s.policy, *req.Description)
	}
	if req.ImageURL != nil {
		c.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: цена не может быть отрицательной", ErrValidation)
		}
		c.Price = req.Price
	}
	if req.CategoryID != nil || req.SubCategoryID != nil {
		catID, subID := c.CategoryID, c.SubCategoryID
		if req.CategoryID != nil {
			catID = *req.CategoryID
		}
		if req.SubCategoryID != nil {
			subID = *req.SubCategoryID
		}
		if err := s.checkCategory(ctx, catID, subID); err != nil {
			log.Warn("Валидация не пройдена: категория", zap.Error(err))
			return nil, err
		}
		c.CategoryID, c.SubCategoryID = catID, subID
	}

	if err := s.courses.Update(ctx, c); err != nil {
		log.Error("Ошибка обновления курса (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Курс обновлён", zap.String("id", id))
	return c, nil
}

func (s *courseService) SetPublish(ctx context.Context, instructorID, id string, publish bool) (*models.Course, error) {
	log := logger.WithCtx(ctx)
	log.Info("Изменение статуса публикации курса", zap.String("id", id), zap.Bool("publish", publish))

	c, err := ownedCourse(ctx, s.courses, instructorID, id)
	if err != nil {
		return nil, err
	}

	if publish {
		published, err := s.sections.CountPublished(ctx, id)
		if err != nil {
			return nil, err
		}
		if comp := models.CourseCompletion(c, published); !comp.IsComplete() {
			log.Warn("Курс не готов к публикации", zap.String("id", id), zap.Strings("missing", comp.Missing))
			return nil, incompleteError(comp)
		}
	}

	if err := s.courses.UpdatePublish(ctx, id, publish); err != nil {
		log.Error("Ошибка обновления статуса публикации (repo)", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка обновления статуса публикации: %w", err)
	}
	c.IsPublished = publish

	evType := models.EventCourseUnpublished
	if publish {
		evType = models.EventCoursePublished
	}
	s.events.Emit(models.Event{Type: evType, CourseID: id, ActorID: instructorID})

	log.Info("Статус публикации курса изменён", zap.String("id", id), zap.Bool("published", publish))
	return c, nil
}

func (s *courseService) Delete(ctx context.Context, instructorID, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление курса", zap.String("id", id))

	if _, err := ownedCourse(ctx, s.courses, instructorID, id); err != nil {
		return err
	}

	sections, err := s.sections.ListByCourse(ctx, id)
	if err != nil {
		return err
	}
	for _, sec := range sections {
		if err := s.video.Remove(ctx, sec.ID); err != nil {
			log.Warn("Не удалось удалить видео раздела", zap.String("section_id", sec.ID), zap.Error(err))
		}
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления курса (repo)", zap.String("id", id), zap.Error(err))
		return err
	}

	s.events.Emit(models.Event{Type: models.EventCourseDeleted, CourseID: id, ActorID: instructorID})
	log.Info("Курс удалён", zap.String("id", id))
	return nil
}
