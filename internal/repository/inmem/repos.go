package inmem

import (
	"context"
	"coursestudio/internal/models"
	"coursestudio/internal/repository"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// ----- Courses -----

type courseRepo struct{ db *DB }

func NewCourseRepo(db *DB) repository.CourseRepo { return &courseRepo{db: db} }

func (r *courseRepo) Create(_ context.Context, c *models.Course) (*models.Course, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	cp := *c
	cp.ID = uuid.NewString()
	cp.IsPublished = false
	cp.CreatedAt, cp.UpdatedAt = now, now
	cp.Sections = nil
	r.db.courses[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *courseRepo) GetByID(_ context.Context, id string) (*models.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r *courseRepo) ListByInstructor(_ context.Context, instructorID string) ([]*models.Course, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var list []*models.Course
	for _, c := range r.db.courses {
		if c.InstructorID == instructorID {
			out := *c
			list = append(list, &out)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *courseRepo) Update(_ context.Context, c *models.Course) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cur, ok := r.db.courses[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Title = c.Title
	cur.Subtitle = c.Subtitle
	cur.Description = c.Description
	cur.ImageURL = c.ImageURL
	cur.Price = c.Price
	cur.CategoryID = c.CategoryID
	cur.SubCategoryID = c.SubCategoryID
	cur.UpdatedAt = r.db.now()
	return nil
}

func (r *courseRepo) UpdatePublish(_ context.Context, id string, publish bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cur, ok := r.db.courses[id]
	if !ok {
		return repository.ErrNotFound
	}
	cur.IsPublished = publish
	cur.UpdatedAt = r.db.now()
	return nil
}

func (r *courseRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.courses, id)
	for sid, s := range r.db.sections {
		if s.CourseID == id {
			r.db.dropSectionLocked(sid)
		}
	}
	return nil
}

// ----- Sections -----

type sectionRepo struct{ db *DB }

func NewSectionRepo(db *DB) repository.SectionRepo { return &sectionRepo{db: db} }

func (db *DB) courseSectionsLocked(courseID string) []*models.Section {
	var list []*models.Section
	for _, s := range db.sections {
		if s.CourseID == courseID {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Position != list[j].Position {
			return list[i].Position < list[j].Position
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (db *DB) dropSectionLocked(id string) {
	delete(db.sections, id)
	delete(db.muxData, id)
	for rid, res := range db.resources {
		if res.SectionID == id {
			delete(db.resources, rid)
		}
	}
	for k := range db.progress {
		if k.section == id {
			delete(db.progress, k)
		}
	}
}

func (r *sectionRepo) Create(_ context.Context, s *models.Section) (*models.Section, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.courses[s.CourseID]; !ok {
		return nil, repository.ErrNotFound
	}
	now := r.db.now()
	cp := models.Section{
		ID:        uuid.NewString(),
		CourseID:  s.CourseID,
		Title:     s.Title,
		Position:  len(r.db.courseSectionsLocked(s.CourseID)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.db.sections[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *sectionRepo) GetByID(_ context.Context, courseID, id string) (*models.Section, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.sections[id]
	if !ok || s.CourseID != courseID {
		return nil, repository.ErrNotFound
	}
	out := *s
	return &out, nil
}

func (r *sectionRepo) ListByCourse(_ context.Context, courseID string) ([]*models.Section, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var list []*models.Section
	for _, s := range r.db.courseSectionsLocked(courseID) {
		out := *s
		list = append(list, &out)
	}
	return list, nil
}

func (r *sectionRepo) Update(_ context.Context, s *models.Section) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cur, ok := r.db.sections[s.ID]
	if !ok || cur.CourseID != s.CourseID {
		return repository.ErrNotFound
	}
	cur.Title = s.Title
	cur.Description = s.Description
	cur.VideoURL = s.VideoURL
	cur.IsFree = s.IsFree
	cur.UpdatedAt = r.db.now()
	return nil
}

func (r *sectionRepo) UpdatePublish(_ context.Context, courseID, id string, publish bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cur, ok := r.db.sections[id]
	if !ok || cur.CourseID != courseID {
		return repository.ErrNotFound
	}
	cur.IsPublished = publish
	cur.UpdatedAt = r.db.now()
	return nil
}

func (r *sectionRepo) CountPublished(_ context.Context, courseID string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, s := range r.db.courseSectionsLocked(courseID) {
		if s.IsPublished {
			n++
		}
	}
	return n, nil
}

func (r *sectionRepo) Delete(_ context.Context, courseID, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cur, ok := r.db.sections[id]
	if !ok || cur.CourseID != courseID {
		return repository.ErrNotFound
	}
	pos := cur.Position
	r.db.dropSectionLocked(id)
	for _, s := range r.db.courseSectionsLocked(courseID) {
		if s.Position > pos {
			s.Position--
		}
	}
	return nil
}

func (r *sectionRepo) Reorder(_ context.Context, courseID string, list []models.PositionUpdate) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range list {
		s, ok := r.db.sections[u.ID]
		if !ok || s.CourseID != courseID {
			return fmt.Errorf("reorder: раздел %s: %w", u.ID, repository.ErrNotFound)
		}
	}
	now := r.db.now()
	for _, u := range list {
		s := r.db.sections[u.ID]
		s.Position = u.Position
		s.UpdatedAt = now
	}
	return nil
}

// ----- Resources -----

type resourceRepo struct{ db *DB }

func NewResourceRepo(db *DB) repository.ResourceRepo { return &resourceRepo{db: db} }

func (r *resourceRepo) Create(_ context.Context, res *models.Resource) (*models.Resource, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cp := *res
	cp.ID = uuid.NewString()
	cp.CreatedAt = r.db.now()
	r.db.resources[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *resourceRepo) ListBySection(_ context.Context, sectionID string) ([]models.Resource, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var list []models.Resource
	for _, res := range r.db.resources {
		if res.SectionID == sectionID {
			list = append(list, *res)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *resourceRepo) Delete(_ context.Context, sectionID, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	res, ok := r.db.resources[id]
	if !ok || res.SectionID != sectionID {
		return repository.ErrNotFound
	}
	delete(r.db.resources, id)
	return nil
}

// ----- MuxData -----

type muxDataRepo struct{ db *DB }

func NewMuxDataRepo(db *DB) repository.MuxDataRepo { return &muxDataRepo{db: db} }

func (r *muxDataRepo) GetBySection(_ context.Context, sectionID string) (*models.MuxData, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	m, ok := r.db.muxData[sectionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *m
	return &out, nil
}

func (r *muxDataRepo) Upsert(_ context.Context, m *models.MuxData) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	cp := *m
	r.db.muxData[m.SectionID] = &cp
	return nil
}

func (r *muxDataRepo) DeleteBySection(_ context.Context, sectionID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.muxData, sectionID)
	return nil
}

func (r *muxDataRepo) ListByStatus(_ context.Context, status string) ([]models.MuxData, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var list []models.MuxData
	for _, m := range r.db.muxData {
		if m.Status == status {
			list = append(list, *m)
		}
	}
	return list, nil
}

func (r *muxDataRepo) UpdateByAsset(_ context.Context, assetID, status, playbackID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, m := range r.db.muxData {
		if m.AssetID == assetID {
			m.Status = status
			if playbackID != "" {
				m.PlaybackID = playbackID
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

// ----- Progress -----

type progressRepo struct{ db *DB }

func NewProgressRepo(db *DB) repository.ProgressRepo { return &progressRepo{db: db} }

func (r *progressRepo) IsCompleted(_ context.Context, studentID, sectionID string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.progress[progressKey{studentID, sectionID}], nil
}

func (r *progressRepo) Upsert(_ context.Context, studentID, sectionID string, completed bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.progress[progressKey{studentID, sectionID}] = completed
	return nil
}

// ----- Categories -----

type categoryRepo struct{ db *DB }

func NewCategoryRepo(db *DB) repository.CategoryRepo { return &categoryRepo{db: db} }

func (r *categoryRepo) List(_ context.Context) ([]models.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]models.Category, len(r.db.categories))
	for i, c := range r.db.categories {
		c.SubCategories = append([]models.SubCategory(nil), c.SubCategories...)
		out[i] = c
	}
	return out, nil
}

func (r *categoryRepo) SubCategoryBelongs(_ context.Context, categoryID, subCategoryID string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, c := range r.db.categories {
		if c.ID == categoryID {
			return c.HasSubCategory(subCategoryID), nil
		}
	}
	return false, nil
}

// ----- Purchases -----

type purchaseRepo struct{ db *DB }

func NewPurchaseRepo(db *DB) repository.PurchaseRepo { return &purchaseRepo{db: db} }

func (r *purchaseRepo) SalesByInstructor(_ context.Context, instructorID string) ([]models.CourseSales, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	byCourse := map[string]*models.CourseSales{}
	var order []string
	for _, p := range r.db.purchases {
		c, ok := r.db.courses[p.courseID]
		if !ok || c.InstructorID != instructorID {
			continue
		}
		s, ok := byCourse[p.courseID]
		if !ok {
			s = &models.CourseSales{CourseID: p.courseID}
			byCourse[p.courseID] = s
			order = append(order, p.courseID)
		}
		s.Total += p.price
		s.Sales++
	}

	out := make([]models.CourseSales, 0, len(order))
	for _, id := range order {
		out = append(out, *byCourse[id])
	}
	return out, nil
}
