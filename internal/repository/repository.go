package repository

import (
	"context"
	"coursestudio/internal/models"
	"errors"
)

var ErrNotFound = errors.New("not found")

type CourseRepo interface {
	Create(ctx context.Context, c *models.Course) (*models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]*models.Course, error)
	Update(ctx context.Context, c *models.Course) error
	UpdatePublish(ctx context.Context, id string, publish bool) error
	Delete(ctx context.Context, id string) error
}

type SectionRepo interface {
	// Create добавляет раздел в конец курса (position = число разделов).
	Create(ctx context.Context, s *models.Section) (*models.Section, error)
	GetByID(ctx context.Context, courseID, id string) (*models.Section, error)
	ListByCourse(ctx context.Context, courseID string) ([]*models.Section, error)
	Update(ctx context.Context, s *models.Section) error
	UpdatePublish(ctx context.Context, courseID, id string, publish bool) error
	CountPublished(ctx context.Context, courseID string) (int, error)
	// Delete удаляет раздел и сдвигает позиции следующих, сохраняя 0..N-1.
	Delete(ctx context.Context, courseID, id string) error
	// Reorder атомарно заменяет позиции всех разделов курса.
	Reorder(ctx context.Context, courseID string, list []models.PositionUpdate) error
}

type ResourceRepo interface {
	Create(ctx context.Context, r *models.Resource) (*models.Resource, error)
	ListBySection(ctx context.Context, sectionID string) ([]models.Resource, error)
	Delete(ctx context.Context, sectionID, id string) error
}

type MuxDataRepo interface {
	GetBySection(ctx context.Context, sectionID string) (*models.MuxData, error)
	Upsert(ctx context.Context, m *models.MuxData) error
	DeleteBySection(ctx context.Context, sectionID string) error
	ListByStatus(ctx context.Context, status string) ([]models.MuxData, error)
	UpdateByAsset(ctx context.Context, assetID, status, playbackID string) error
}

type ProgressRepo interface {
	IsCompleted(ctx context.Context, studentID, sectionID string) (bool, error)
	Upsert(ctx context.Context, studentID, sectionID string, completed bool) error
}

type CategoryRepo interface {
	List(ctx context.Context) ([]models.Category, error)
	SubCategoryBelongs(ctx context.Context, categoryID, subCategoryID string) (bool, error)
}

type PurchaseRepo interface {
	SalesByInstructor(ctx context.Context, instructorID string) ([]models.CourseSales, error)
}
