package services

import (
	"context"
	"coursestudio/internal/models"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secs(ids ...string) []*models.Section {
	out := make([]*models.Section, len(ids))
	for i, id := range ids {
		out[i] = &models.Section{ID: id, Position: i}
	}
	return out
}

func TestValidateReorder(t *testing.T) {
	existing := secs("a", "b", "c")
	cases := []struct {
		name string
		list []models.PositionUpdate
		ok   bool
	}{
		{"полная перестановка", []models.PositionUpdate{{ID: "c", Position: 0}, {ID: "a", Position: 1}, {ID: "b", Position: 2}}, true},
		{"не все разделы", []models.PositionUpdate{{ID: "a", Position: 0}, {ID: "b", Position: 1}}, false},
		{"чужой раздел", []models.PositionUpdate{{ID: "a", Position: 0}, {ID: "b", Position: 1}, {ID: "x", Position: 2}}, false},
		{"дубликат id", []models.PositionUpdate{{ID: "a", Position: 0}, {ID: "a", Position: 1}, {ID: "b", Position: 2}}, false},
		{"дубликат позиции", []models.PositionUpdate{{ID: "a", Position: 0}, {ID: "b", Position: 0}, {ID: "c", Position: 2}}, false},
		{"позиция вне диапазона", []models.PositionUpdate{{ID: "a", Position: 0}, {ID: "b", Position: 1}, {ID: "c", Position: 3}}, false},
		{"отрицательная позиция", []models.PositionUpdate{{ID: "a", Position: -1}, {ID: "b", Position: 1}, {ID: "c", Position: 2}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateReorder(tc.list, existing)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidReorder)
			}
		})
	}
}

func TestSectionCreate_AppendsAtEnd(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "Курс")

	for i, title := range []string{"Первый", "Второй", "Третий"} {
		s := e.section(t, c.ID, title)
		if s.Position != i {
			t.Fatalf("ожидалась позиция %d, получено %d", i, s.Position)
		}
		if s.IsPublished {
			t.Fatalf("новый раздел не должен быть опубликован")
		}
	}

	_, err := e.sections.Create(context.Background(), stranger, c.ID, models.CreateSectionRequest{Title: "Чужой"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("ожидалась ErrForbidden, получено %v", err)
	}
}

func TestSectionReorder_Persists(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "Курс")
	s1 := e.section(t, c.ID, "item1")
	s2 := e.section(t, c.ID, "item2")
	s3 := e.section(t, c.ID, "item3")

	err := e.sections.Reorder(context.Background(), owner, c.ID, []models.PositionUpdate{
		{ID: s3.ID, Position: 0}, {ID: s1.ID, Position: 1}, {ID: s2.ID, Position: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{s3.ID: 0, s1.ID: 1, s2.ID: 2}, positions(t, e, c.ID))
	assert.Contains(t, e.events.Types(), models.EventSectionsReordered)

	err = e.sections.Reorder(context.Background(), owner, c.ID, []models.PositionUpdate{{ID: s1.ID, Position: 0}})
	assert.ErrorIs(t, err, ErrInvalidReorder)
	assert.Equal(t, map[string]int{s3.ID: 0, s1.ID: 1, s2.ID: 2}, positions(t, e, c.ID), "частичный список не применяется")

	err = e.sections.Reorder(context.Background(), stranger, c.ID, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSectionDelete_CompactsPositions(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "Курс")
	s1 := e.section(t, c.ID, "a")
	s2 := e.section(t, c.ID, "b")
	s3 := e.section(t, c.ID, "c")

	require.NoError(t, e.sections.Delete(context.Background(), owner, c.ID, s2.ID))
	assert.Equal(t, map[string]int{s1.ID: 0, s3.ID: 1}, positions(t, e, c.ID))

	_, err := e.sections.GetDetail(context.Background(), owner, c.ID, s2.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSectionPublish_RequiresCompletion(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "Курс")
	s := e.section(t, c.ID, "Введение")

	_, err := e.sections.SetPublish(context.Background(), owner, c.ID, s.ID, true)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("ожидалась ErrIncomplete, получено %v", err)
	}
	assert.Contains(t, err.Error(), "description")
	assert.Contains(t, err.Error(), "videoUrl")
}

// Снятие с публикации последнего раздела снимает с публикации и курс.
func TestSectionUnpublish_LastSectionUnpublishesCourse(t *testing.T) {
	e := newEnv(t)
	c := e.readyCourse(t)
	_, err := e.courses.SetPublish(context.Background(), owner, c.ID, true)
	require.NoError(t, err)

	got, err := e.courses.Get(context.Background(), owner, c.ID)
	require.NoError(t, err)
	require.True(t, got.IsPublished)
	sectionID := got.Sections[0].ID

	_, err = e.sections.SetPublish(context.Background(), owner, c.ID, sectionID, false)
	require.NoError(t, err)

	got, err = e.courses.Get(context.Background(), owner, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublished)
	assert.Contains(t, e.events.Types(), models.EventCourseUnpublished)
}

func TestSectionDelete_LastPublishedUnpublishesCourse(t *testing.T) {
	e := newEnv(t)
	c := e.readyCourse(t)
	draft := e.section(t, c.ID, "черновик")
	_, err := e.courses.SetPublish(context.Background(), owner, c.ID, true)
	require.NoError(t, err)

	got, _ := e.courses.Get(context.Background(), owner, c.ID)
	var publishedID string
	for _, s := range got.Sections {
		if s.IsPublished {
			publishedID = s.ID
		}
	}
	require.NoError(t, e.sections.Delete(context.Background(), owner, c.ID, publishedID))

	got, err = e.courses.Get(context.Background(), owner, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublished)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, draft.ID, got.Sections[0].ID)
	assert.Equal(t, 0, got.Sections[0].Position)
}

func TestSectionGetDetail_Visibility(t *testing.T) {
	e := newEnv(t)
	c := e.readyCourse(t)
	got, _ := e.courses.Get(context.Background(), owner, c.ID)
	published := got.Sections[0].ID
	draft := e.section(t, c.ID, "черновик")

	_, err := e.sections.GetDetail(context.Background(), stranger, c.ID, published)
	assert.ErrorIs(t, err, ErrNotFound, "курс ещё не опубликован")

	_, err = e.courses.SetPublish(context.Background(), owner, c.ID, true)
	require.NoError(t, err)

	d, err := e.sections.GetDetail(context.Background(), stranger, c.ID, published)
	require.NoError(t, err)
	assert.False(t, d.IsCompleted)
	require.NotNil(t, d.Section.MuxData)
	assert.Equal(t, models.AssetPreparing, d.Section.MuxData.Status)

	_, err = e.sections.GetDetail(context.Background(), stranger, c.ID, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.sections.GetDetail(context.Background(), owner, c.ID, draft.ID)
	assert.NoError(t, err)
}

func TestSectionUpdate_SanitizesAndReplacesVideo(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "Курс")
	s := e.section(t, c.ID, "Видео")

	desc := `<p>Текст<script>alert(1)</script></p>`
	v1 := "https://cdn.example.com/v1.mp4"
	upd, err := e.sections.Update(context.Background(), owner, c.ID, s.ID, models.UpdateSectionRequest{Description: &desc, VideoURL: &v1})
	require.NoError(t, err)
	assert.Equal(t, "<p>Текст</p>", upd.Description)

	v2 := "https://cdn.example.com/v2.mp4"
	_, err = e.sections.Update(context.Background(), owner, c.ID, s.ID, models.UpdateSectionRequest{VideoURL: &v2})
	require.NoError(t, err)

	// тот же url не пересоздаёт ассет
	_, err = e.sections.Update(context.Background(), owner, c.ID, s.ID, models.UpdateSectionRequest{VideoURL: &v2})
	require.NoError(t, err)

	assert.Equal(t, []string{v1, v2}, e.provider.created)
	assert.Equal(t, []string{"asset-1"}, e.provider.deleted)

	empty := "<p><br></p>"
	upd, err = e.sections.Update(context.Background(), owner, c.ID, s.ID, models.UpdateSectionRequest{Description: &empty})
	require.NoError(t, err)
	assert.Empty(t, upd.Description)
}

func TestSectionUpdate_RetriesFailedVideo(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "Курс")
	s := e.section(t, c.ID, "Видео")
	e.provider.failNext = 1

	v := "https://cdn.example.com/x.mp4"
	_, err := e.sections.Update(context.Background(), owner, c.ID, s.ID, models.UpdateSectionRequest{VideoURL: &v})
	require.Error(t, err)

	// повтор с тем же url должен создать ассет
	_, err = e.sections.Update(context.Background(), owner, c.ID, s.ID, models.UpdateSectionRequest{VideoURL: &v})
	require.NoError(t, err)

	d, err := e.sections.GetDetail(context.Background(), owner, c.ID, s.ID)
	require.NoError(t, err)
	require.NotNil(t, d.Section.MuxData)
	assert.Equal(t, "asset-1", d.Section.MuxData.AssetID)
	assert.Equal(t, []string{v}, e.provider.created)

	// ассет есть: третий повтор ничего не пересоздаёт
	_, err = e.sections.Update(context.Background(), owner, c.ID, s.ID, models.UpdateSectionRequest{VideoURL: &v})
	require.NoError(t, err)
	assert.Equal(t, []string{v}, e.provider.created)
}

func TestResourceCreateDelete(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "Курс")
	s := e.section(t, c.ID, "Раздел")

	_, err := e.res.Create(context.Background(), owner, c.ID, s.ID, models.CreateResourceRequest{Name: "a", FileURL: "https://x/y.pdf"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = e.res.Create(context.Background(), owner, c.ID, s.ID, models.CreateResourceRequest{Name: "Слайды"})
	assert.ErrorIs(t, err, ErrValidation)

	r, err := e.res.Create(context.Background(), owner, c.ID, s.ID, models.CreateResourceRequest{Name: "Слайды", FileURL: "https://x/y.pdf"})
	require.NoError(t, err)

	d, err := e.sections.GetDetail(context.Background(), owner, c.ID, s.ID)
	require.NoError(t, err)
	require.Len(t, d.Section.Resources, 1)

	assert.ErrorIs(t, e.res.Delete(context.Background(), stranger, c.ID, s.ID, r.ID), ErrForbidden)
	require.NoError(t, e.res.Delete(context.Background(), owner, c.ID, s.ID, r.ID))
	assert.ErrorIs(t, e.res.Delete(context.Background(), owner, c.ID, s.ID, r.ID), ErrNotFound)
}

func TestProgressSet(t *testing.T) {
	e := newEnv(t)
	c := e.readyCourse(t)
	got, _ := e.courses.Get(context.Background(), owner, c.ID)
	sectionID := got.Sections[0].ID

	err := e.progress.Set(context.Background(), stranger, c.ID, sectionID, true)
	assert.ErrorIs(t, err, ErrNotFound, "неопубликованный курс")

	_, err = e.courses.SetPublish(context.Background(), owner, c.ID, true)
	require.NoError(t, err)
	require.NoError(t, e.progress.Set(context.Background(), stranger, c.ID, sectionID, true))

	d, err := e.sections.GetDetail(context.Background(), stranger, c.ID, sectionID)
	require.NoError(t, err)
	assert.True(t, d.IsCompleted)

	require.NoError(t, e.progress.Set(context.Background(), stranger, c.ID, sectionID, false))
	d, _ = e.sections.GetDetail(context.Background(), stranger, c.ID, sectionID)
	assert.False(t, d.IsCompleted)
}
