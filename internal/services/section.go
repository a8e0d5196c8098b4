package services

import (
	"context"
	"coursestudio/internal/logger"
	"coursestudio/internal/models"
	"coursestudio/internal/repository"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type SectionService interface {
	Create(ctx context.Context, instructorID, courseID string, req models.CreateSectionRequest) (*models.Section, error)
	GetDetail(ctx context.Context, userID, courseID, id string) (*models.SectionDetail, error)
	Update(ctx context.Context, instructorID, courseID, id string, req models.UpdateSectionRequest) (*models.Section, error)
	SetPublish(ctx context.Context, instructorID, courseID, id string, publish bool) (*models.Section, error)
	Delete(ctx context.Context, instructorID, courseID, id string) error
	Reorder(ctx context.Context, instructorID, courseID string, list []models.PositionUpdate) error
}

type sectionService struct {
	courses   repository.CourseRepo
	sections  repository.SectionRepo
	resources repository.ResourceRepo
	mux       repository.MuxDataRepo
	progress  repository.ProgressRepo
	video     *VideoService
	events    Emitter
	policy    *bluemonday.Policy
}

func NewSectionService(
	courses repository.CourseRepo,
	sections repository.SectionRepo,
	resources repository.ResourceRepo,
	mux repository.MuxDataRepo,
	progress repository.ProgressRepo,
	video *VideoService,
	events Emitter,
) SectionService {
	return &sectionService{
		courses:   courses,
		sections:  sections,
		resources: resources,
		mux:       mux,
		progress:  progress,
		video:     video,
		events:    events,
		policy:    descriptionPolicy(),
	}
}

// ValidateReorder проверяет, что list является полной перестановкой разделов курса:
// каждый раздел ровно один раз, позиции ровно 0..N-1.
func ValidateReorder(list []models.PositionUpdate, existing []*models.Section) error {
	if len(list) != len(existing) {
		return fmt.Errorf("%w: ожидалось %d разделов, получено %d", ErrInvalidReorder, len(existing), len(list))
	}
	known := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		known[s.ID] = struct{}{}
	}
	seenID := make(map[string]struct{}, len(list))
	seenPos := make([]bool, len(list))
	for _, u := range list {
		if _, ok := known[u.ID]; !ok {
			return fmt.Errorf("%w: раздел %s не принадлежит курсу", ErrInvalidReorder, u.ID)
		}
		if _, dup := seenID[u.ID]; dup {
			return fmt.Errorf("%w: раздел %s указан дважды", ErrInvalidReorder, u.ID)
		}
		seenID[u.ID] = struct{}{}
		if u.Position < 0 || u.Position >= len(list) || seenPos[u.Position] {
			return fmt.Errorf("%w: недопустимая позиция %d", ErrInvalidReorder, u.Position)
		}
		seenPos[u.Position] = true
	}
	return nil
}

func (s *sectionService) Create(ctx context.Context, instructorID, courseID string, req models.CreateSectionRequest) (*models.Section, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание раздела", zap.String("course_id", courseID), zap.String("title", strings.TrimSpace(req.Title)))

	if err := validateMinRunes("название", req.Title, 1); err != nil {
		return nil, err
	}
	if _, err := ownedCourse(ctx, s.courses, instructorID, courseID); err != nil {
		return nil, err
	}

	created, err := s.sections.Create(ctx, &models.Section{
		CourseID: courseID,
		Title:    strings.TrimSpace(req.Title),
	})
	if err != nil {
		log.Error("Ошибка создания раздела (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Раздел создан", zap.String("id", created.ID), zap.Int("position", created.Position))
	return created, nil
}

// GetDetail собирает раздел с материалами, видео и прогрессом пользователя.
// Не владельцу доступны только опубликованные разделы опубликованных курсов.
func (s *sectionService) GetDetail(ctx context.Context, userID, courseID, id string) (*models.SectionDetail, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	sec, err := s.sections.GetByID(ctx, courseID, id)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != userID && (!course.IsPublished || !sec.IsPublished) {
		return nil, ErrNotFound
	}

	var (
		resources []models.Resource
		md        *models.MuxData
		completed bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resources, err = s.resources.ListBySection(gctx, id)
		return err
	})
	g.Go(func() error {
		m, err := s.mux.GetBySection(gctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		md = m
		return err
	})
	g.Go(func() error {
		var err error
		completed, err = s.progress.IsCompleted(gctx, userID, id)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.WithCtx(ctx).Error("Ошибка загрузки раздела", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	sec.Resources = resources
	sec.MuxData = md
	return &models.SectionDetail{Section: *sec, IsCompleted: completed}, nil
}

func (s *sectionService) Update(ctx context.Context, instructorID, courseID, id string, req models.UpdateSectionRequest) (*models.Section, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление раздела", zap.String("course_id", courseID), zap.String("id", id))

	if _, err := ownedCourse(ctx, s.courses, instructorID, courseID); err != nil {
		return nil, err
	}
	sec, err := s.sections.GetByID(ctx, courseID, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) != "" {
		sec.Title = strings.TrimSpace(req.Title)
	}
	if req.Description != nil {
		sec.Description = sanitizeDescription(s.policy, *req.Description)
	}
	if req.IsFree != nil {
		sec.IsFree = *req.IsFree
	}
	videoChanged := false
	if req.VideoURL != nil {
		url := strings.TrimSpace(*req.VideoURL)
		videoChanged = url != sec.VideoURL
		if !videoChanged && url != "" {
			// прошлая попытка могла сохранить url, не создав ассет
			missing, err := s.video.AssetMissing(ctx, sec.ID)
			if err != nil {
				return nil, err
			}
			videoChanged = missing
		}
		sec.VideoURL = url
	}

	if err := s.sections.Update(ctx, sec); err != nil {
		log.Error("Ошибка обновления раздела (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if videoChanged {
		if err := s.video.Replace(ctx, sec.ID, sec.VideoURL); err != nil {
			log.Error("Видео раздела сохранено, но ассет не создан", zap.String("id", id), zap.Error(err))
			return nil, fmt.Errorf("не удалось обработать видео: %w", err)
		}
	}

	log.Info("Раздел обновлён", zap.String("id", id))
	return sec, nil
}

// unpublishCourseIfEmpty снимает курс с публикации, когда в нём не осталось опубликованных разделов.
func (s *sectionService) unpublishCourseIfEmpty(ctx context.Context, course *models.Course, actorID string) error {
	if !course.IsPublished {
		return nil
	}
	n, err := s.sections.CountPublished(ctx, course.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := s.courses.UpdatePublish(ctx, course.ID, false); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("Курс снят с публикации: нет опубликованных разделов", zap.String("course_id", course.ID))
	s.events.Emit(models.Event{Type: models.EventCourseUnpublished, CourseID: course.ID, ActorID: actorID})
	return nil
}

func (s *sectionService) SetPublish(ctx context.Context, instructorID, courseID, id string, publish bool) (*models.Section, error) {
	log := logger.WithCtx(ctx)
	log.Info("Изменение статуса публикации раздела",
		zap.String("course_id", courseID), zap.String("id", id), zap.Bool("publish", publish))

	course, err := ownedCourse(ctx, s.courses, instructorID, courseID)
	if err != nil {
		return nil, err
	}
	sec, err := s.sections.GetByID(ctx, courseID, id)
	if err != nil {
		return nil, err
	}

	if publish {
		if comp := models.SectionCompletion(sec); !comp.IsComplete() {
			log.Warn("Раздел не готов к публикации", zap.String("id", id), zap.Strings("missing", comp.Missing))
			return nil, incompleteError(comp)
		}
	}

	if err := s.sections.UpdatePublish(ctx, courseID, id, publish); err != nil {
		log.Error("Ошибка обновления статуса раздела (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	sec.IsPublished = publish

	evType := models.EventSectionUnpublished
	if publish {
		evType = models.EventSectionPublished
	}
	s.events.Emit(models.Event{Type: evType, CourseID: courseID, SectionID: id, ActorID: instructorID})

	if !publish {
		if err := s.unpublishCourseIfEmpty(ctx, course, instructorID); err != nil {
			log.Error("Не удалось снять курс с публикации", zap.String("course_id", courseID), zap.Error(err))
			return nil, err
		}
	}
	return sec, nil
}

func (s *sectionService) Delete(ctx context.Context, instructorID, courseID, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление раздела", zap.String("course_id", courseID), zap.String("id", id))

	course, err := ownedCourse(ctx, s.courses, instructorID, courseID)
	if err != nil {
		return err
	}
	if _, err := s.sections.GetByID(ctx, courseID, id); err != nil {
		return err
	}

	if err := s.video.Remove(ctx, id); err != nil {
		log.Warn("Не удалось удалить видео раздела", zap.String("id", id), zap.Error(err))
	}
	if err := s.sections.Delete(ctx, courseID, id); err != nil {
		log.Error("Ошибка удаления раздела (repo)", zap.String("id", id), zap.Error(err))
		return err
	}
	s.events.Emit(models.Event{Type: models.EventSectionDeleted, CourseID: courseID, SectionID: id, ActorID: instructorID})

	if err := s.unpublishCourseIfEmpty(ctx, course, instructorID); err != nil {
		log.Error("Не удалось снять курс с публикации", zap.String("course_id", courseID), zap.Error(err))
		return err
	}

	log.Info("Раздел удалён", zap.String("id", id))
	return nil
}

func (s *sectionService) Reorder(ctx context.Context, instructorID, courseID string, list []models.PositionUpdate) error {
	log := logger.WithCtx(ctx)
	log.Info("Перестановка разделов", zap.String("course_id", courseID), zap.Int("count", len(list)))

	if _, err := ownedCourse(ctx, s.courses, instructorID, courseID); err != nil {
		return err
	}
	existing, err := s.sections.ListByCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if err := ValidateReorder(list, existing); err != nil {
		log.Warn("Некорректная перестановка", zap.Error(err))
		return err
	}
	if err := s.sections.Reorder(ctx, courseID, list); err != nil {
		log.Error("Ошибка перестановки разделов (repo)", zap.Error(err))
		return err
	}

	s.events.Emit(models.Event{Type: models.EventSectionsReordered, CourseID: courseID, ActorID: instructorID})
	return nil
}
