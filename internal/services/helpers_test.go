package services

import (
	"context"
	"coursestudio/internal/models"
	"coursestudio/internal/repository/inmem"
	"fmt"
	"sync"
	"testing"
)

// ---------- заглушки ----------

type mockEmitter struct {
	mu     sync.Mutex
	events []models.Event
}

func (m *mockEmitter) Emit(ev models.Event) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
}

func (m *mockEmitter) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, ev := range m.events {
		out[i] = ev.Type
	}
	return out
}

type mockProvider struct {
	mu       sync.Mutex
	next     int
	created  []string
	deleted  []string
	status   map[string]string
	failNext int // столько следующих CreateAsset вернут ошибку
}

func newMockProvider() *mockProvider { return &mockProvider{status: map[string]string{}} }

func (p *mockProvider) CreateAsset(_ context.Context, inputURL string) (*Asset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNext > 0 {
		p.failNext--
		return nil, fmt.Errorf("mux 503")
	}
	p.next++
	id := fmt.Sprintf("asset-%d", p.next)
	p.created = append(p.created, inputURL)
	p.status[id] = "preparing"
	return &Asset{ID: id, Status: "preparing"}, nil
}

func (p *mockProvider) GetAsset(_ context.Context, assetID string) (*Asset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.status[assetID]
	if !ok {
		return nil, ErrNotFound
	}
	a := &Asset{ID: assetID, Status: st}
	if st == "ready" {
		a.PlaybackID = "pb-" + assetID
	}
	return a, nil
}

func (p *mockProvider) DeleteAsset(_ context.Context, assetID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, assetID)
	delete(p.status, assetID)
	return nil
}

// ---------- окружение ----------

const (
	owner    = "instructor-1"
	stranger = "student-1"
)

type env struct {
	db       *inmem.DB
	events   *mockEmitter
	provider *mockProvider
	video    *VideoService
	courses  CourseService
	sections SectionService
	res      ResourceService
	progress ProgressService
	perf     PerformanceService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := inmem.Open()
	db.SeedCategory(models.Category{ID: "it", Name: "IT", SubCategories: []models.SubCategory{{ID: "web"}, {ID: "data"}}})
	db.SeedCategory(models.Category{ID: "design", Name: "Дизайн", SubCategories: []models.SubCategory{{ID: "ui"}}})

	courses := inmem.NewCourseRepo(db)
	sections := inmem.NewSectionRepo(db)
	resources := inmem.NewResourceRepo(db)
	muxData := inmem.NewMuxDataRepo(db)
	progress := inmem.NewProgressRepo(db)

	e := &env{db: db, events: &mockEmitter{}, provider: newMockProvider()}
	e.video = NewVideoService(e.provider, muxData)
	e.courses = NewCourseService(courses, sections, inmem.NewCategoryRepo(db), e.video, e.events)
	e.sections = NewSectionService(courses, sections, resources, muxData, progress, e.video, e.events)
	e.res = NewResourceService(courses, sections, resources)
	e.progress = NewProgressService(courses, sections, progress)
	e.perf = NewPerformanceService(courses, inmem.NewPurchaseRepo(db))
	return e
}

func (e *env) course(t *testing.T, title string) *models.Course {
	t.Helper()
	c, err := e.courses.Create(context.Background(), owner, models.CreateCourseRequest{Title: title, CategoryID: "it", SubCategoryID: "web"})
	if err != nil {
		t.Fatalf("не удалось создать курс: %v", err)
	}
	return c
}

func (e *env) section(t *testing.T, courseID, title string) *models.Section {
	t.Helper()
	s, err := e.sections.Create(context.Background(), owner, courseID, models.CreateSectionRequest{Title: title})
	if err != nil {
		t.Fatalf("не удалось создать раздел: %v", err)
	}
	return s
}

// readySection: раздел со всеми обязательными полями, опубликованный.
func (e *env) readySection(t *testing.T, courseID, title string) *models.Section {
	t.Helper()
	s := e.section(t, courseID, title)
	desc, video := "<p>Описание</p>", "https://cdn.example.com/"+title+".mp4"
	if _, err := e.sections.Update(context.Background(), owner, courseID, s.ID, models.UpdateSectionRequest{Description: &desc, VideoURL: &video}); err != nil {
		t.Fatalf("не удалось обновить раздел: %v", err)
	}
	if _, err := e.sections.SetPublish(context.Background(), owner, courseID, s.ID, true); err != nil {
		t.Fatalf("не удалось опубликовать раздел: %v", err)
	}
	return s
}

// readyCourse: курс, готовый к публикации.
func (e *env) readyCourse(t *testing.T) *models.Course {
	t.Helper()
	c := e.course(t, "Go с нуля")
	desc, img, price := "<p>Курс</p>", "https://cdn.example.com/go.png", 1200.0
	if _, err := e.courses.Update(context.Background(), owner, c.ID, models.UpdateCourseRequest{Description: &desc, ImageURL: &img, Price: &price}); err != nil {
		t.Fatalf("не удалось обновить курс: %v", err)
	}
	e.readySection(t, c.ID, "intro")
	return c
}

func positions(t *testing.T, e *env, courseID string) map[string]int {
	t.Helper()
	c, err := e.courses.Get(context.Background(), owner, courseID)
	if err != nil {
		t.Fatalf("не удалось загрузить курс: %v", err)
	}
	out := map[string]int{}
	for _, s := range c.Sections {
		out[s.ID] = s.Position
	}
	return out
}
