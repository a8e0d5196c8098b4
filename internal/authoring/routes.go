package authoring

import (
	"context"
	"sync"
)

const (
	CoursesPath     = "/instructor/courses"
	PerformancePath = "/instructor/performance"
	SignInPath      = "/sign-in"
)

func CourseBasicPath(courseID string) string {
	return CoursesPath + "/" + courseID + "/basic"
}

func SectionsPath(courseID string) string {
	return CoursesPath + "/" + courseID + "/sections"
}

func SectionPath(courseID, sectionID string) string {
	return SectionsPath(courseID) + "/" + sectionID
}

// Navigator: переходы между экранами и перезагрузка данных текущего экрана.
type Navigator interface {
	Push(path string)
	Refresh(ctx context.Context) error
}

// History: Navigator, который запоминает переходы и вызывает reload на Refresh.
type History struct {
	mu        sync.Mutex
	paths     []string
	refreshes int
	reload    func(ctx context.Context, path string) error
}

// NewHistory: reload получает текущий путь; при nil только учёт переходов.
func NewHistory(start string, reload func(ctx context.Context, path string) error) *History {
	h := &History{reload: reload}
	if start != "" {
		h.paths = append(h.paths, start)
	}
	return h
}

func (h *History) Push(path string) {
	h.mu.Lock()
	h.paths = append(h.paths, path)
	h.mu.Unlock()
}

func (h *History) Refresh(ctx context.Context) error {
	h.mu.Lock()
	h.refreshes++
	cur := ""
	if len(h.paths) > 0 {
		cur = h.paths[len(h.paths)-1]
	}
	reload := h.reload
	h.mu.Unlock()

	if reload == nil {
		return nil
	}
	return reload(ctx, cur)
}

func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.paths) == 0 {
		return ""
	}
	return h.paths[len(h.paths)-1]
}

func (h *History) Paths() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.paths...)
}

func (h *History) Refreshes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refreshes
}
