package models

import "time"

// CourseSales: агрегат покупок по одному курсу.
type CourseSales struct {
	CourseID string  `json:"courseId"`
	Total    float64 `json:"total"`
	Sales    int     `json:"sales"`
}

type ChartPoint struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

type PerformanceReport struct {
	Data         []ChartPoint `json:"data"`
	TotalRevenue float64      `json:"totalRevenue"`
	TotalSales   int          `json:"totalSales"`
}

const (
	EventCoursePublished    = "course.published"
	EventCourseUnpublished  = "course.unpublished"
	EventCourseDeleted      = "course.deleted"
	EventSectionPublished   = "section.published"
	EventSectionUnpublished = "section.unpublished"
	EventSectionDeleted     = "section.deleted"
	EventSectionsReordered  = "sections.reordered"
)

// Event: изменение, после которого открытые экраны курса стоит перечитать.
type Event struct {
	Type      string    `json:"type"`
	CourseID  string    `json:"courseId"`
	SectionID string    `json:"sectionId,omitempty"`
	ActorID   string    `json:"actorId,omitempty"`
	At        time.Time `json:"at"`
}
