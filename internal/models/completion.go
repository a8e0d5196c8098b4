package models

import "strings"

// Completion: сколько обязательных полей заполнено перед публикацией.
type Completion struct {
	Required int      `json:"required"`
	Missing  []string `json:"missing"`
}

func (c Completion) IsComplete() bool { return len(c.Missing) == 0 }

func (c Completion) Filled() int { return c.Required - len(c.Missing) }

func newCompletion(fields map[string]bool, order []string) Completion {
	c := Completion{Required: len(order)}
	for _, name := range order {
		if !fields[name] {
			c.Missing = append(c.Missing, name)
		}
	}
	return c
}

func present(s string) bool { return strings.TrimSpace(s) != "" }

// SectionCompletion: раздел можно публиковать, когда есть название, описание и видео.
func SectionCompletion(s *Section) Completion {
	return newCompletion(map[string]bool{
		"title":       present(s.Title),
		"description": present(s.Description),
		"videoUrl":    present(s.VideoURL),
	}, []string{"title", "description", "videoUrl"})
}

// CourseCompletion требует заполненную карточку курса и хотя бы один опубликованный раздел.
func CourseCompletion(c *Course, publishedSections int) Completion {
	return newCompletion(map[string]bool{
		"title":         present(c.Title),
		"description":   present(c.Description),
		"categoryId":    present(c.CategoryID),
		"subCategoryId": present(c.SubCategoryID),
		"imageUrl":      present(c.ImageURL),
		"price":         c.Price != nil,
		"sections":      publishedSections > 0,
	}, []string{"title", "description", "categoryId", "subCategoryId", "imageUrl", "price", "sections"})
}
