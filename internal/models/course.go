package models

import "time"

type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	SubCategories []SubCategory `json:"subCategories"`
}

type SubCategory struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
}

// HasSubCategory сообщает, входит ли подкатегория в категорию.
func (c Category) HasSubCategory(id string) bool {
	for _, s := range c.SubCategories {
		if s.ID == id {
			return true
		}
	}
	return false
}

type Course struct {
	ID            string    `json:"id"`
	InstructorID  string    `json:"instructorId"`
	Title         string    `json:"title"`
	Subtitle      string    `json:"subtitle,omitempty"`
	Description   string    `json:"description,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	Price         *float64  `json:"price,omitempty"`
	CategoryID    string    `json:"categoryId"`
	SubCategoryID string    `json:"subCategoryId"`
	IsPublished   bool      `json:"isPublished"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Sections []Section `json:"sections,omitempty"`
}

// swagger:model CreateCourseRequest
type CreateCourseRequest struct {
	Title         string `json:"title"         example:"Веб-разработка для начинающих"`
	CategoryID    string `json:"categoryId"    example:"c1"`
	SubCategoryID string `json:"subCategoryId" example:"s1"`
}

// swagger:model UpdateCourseRequest
type UpdateCourseRequest struct {
	Title         *string  `json:"title,omitempty"`
	Subtitle      *string  `json:"subtitle,omitempty"`
	Description   *string  `json:"description,omitempty"`
	ImageURL      *string  `json:"imageUrl,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	CategoryID    *string  `json:"categoryId,omitempty"`
	SubCategoryID *string  `json:"subCategoryId,omitempty"`
}
