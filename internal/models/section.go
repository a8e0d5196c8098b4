package models

import "time"

type Section struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	IsFree      bool      `json:"isFree"`
	IsPublished bool      `json:"isPublished"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Resources []Resource `json:"resources,omitempty"`
	MuxData   *MuxData   `json:"muxData,omitempty"`
}

// SectionDetail: раздел глазами конкретного пользователя (с его прогрессом).
type SectionDetail struct {
	Section     Section `json:"section"`
	IsCompleted bool    `json:"isCompleted"`
}

const (
	AssetPreparing = "preparing"
	AssetReady     = "ready"
	AssetErrored   = "errored"
)

type MuxData struct {
	ID         string `json:"id"`
	SectionID  string `json:"sectionId"`
	AssetID    string `json:"assetId"`
	PlaybackID string `json:"playbackId,omitempty"`
	Status     string `json:"status"`
}

type Resource struct {
	ID        string    `json:"id"`
	SectionID string    `json:"sectionId"`
	Name      string    `json:"name"`
	FileURL   string    `json:"fileUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// PositionUpdate: элемент полной перестановки разделов курса.
type PositionUpdate struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// swagger:model ReorderRequest
type ReorderRequest struct {
	List []PositionUpdate `json:"list"`
}

// swagger:model CreateSectionRequest
type CreateSectionRequest struct {
	Title string `json:"title" example:"Введение"`
}

// swagger:model UpdateSectionRequest
type UpdateSectionRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	VideoURL    *string `json:"videoUrl,omitempty"`
	IsFree      *bool   `json:"isFree,omitempty"`
}

// swagger:model CreateResourceRequest
type CreateResourceRequest struct {
	Name    string `json:"name"`
	FileURL string `json:"fileUrl"`
}

// swagger:model ProgressRequest
type ProgressRequest struct {
	IsCompleted bool `json:"isCompleted"`
}
