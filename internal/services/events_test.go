package services

import (
	"bytes"
	"context"
	"coursestudio/internal/models"
	"coursestudio/internal/repository/inmem"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []models.Event
	fail   bool
}

func (s *recordingSink) Publish(_ context.Context, ev models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	if s.fail {
		return errors.New("sink недоступен")
	}
	return nil
}

func TestEventBus_DeliversBeforeClose(t *testing.T) {
	sink := &recordingSink{}
	bus := NewEventBus(sink, 16)
	bus.Start(3)

	for i := 0; i < 10; i++ {
		bus.Emit(models.Event{Type: models.EventSectionsReordered, CourseID: "c1"})
	}
	bus.Close()
	bus.Close() // повторный Close безопасен

	require.Len(t, sink.events, 10)
	for _, ev := range sink.events {
		assert.False(t, ev.At.IsZero(), "время события проставляется при Emit")
	}
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	sink := &recordingSink{}
	bus := NewEventBus(sink, 2)

	// воркеры не запущены, очередь вмещает только два события
	for i := 0; i < 5; i++ {
		bus.Emit(models.Event{Type: models.EventCourseDeleted})
	}
	bus.Start(1)
	bus.Close()
	assert.Len(t, sink.events, 2)
}

func TestEventBus_SinkErrorDoesNotStop(t *testing.T) {
	sink := &recordingSink{fail: true}
	bus := NewEventBus(sink, 0)
	bus.Start(1)
	bus.Emit(models.Event{Type: models.EventCoursePublished, At: time.Unix(1, 0)})
	bus.Emit(models.Event{Type: models.EventCourseUnpublished})
	bus.Close()
	require.Len(t, sink.events, 2)
	assert.Equal(t, time.Unix(1, 0), sink.events[0].At)
}

func TestUploadService_Save(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, "http://localhost:8080/")

	url, err := svc.Save(UploadImage, "Cover.PNG", 3, strings.NewReader("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	raw, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "png", string(raw))

	_, err = svc.Save(UploadImage, "doc.pdf", 3, strings.NewReader("pdf"))
	assert.ErrorIs(t, err, ErrUploadType)

	_, err = svc.Save("archive", "a.zip", 1, strings.NewReader("z"))
	assert.ErrorIs(t, err, ErrUploadKind)

	_, err = svc.Save(UploadImage, "big.jpg", 5<<20, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUploadTooLarge)

	// заявленный размер занижен, реальный больше лимита
	_, err = svc.Save(UploadImage, "liar.jpg", 1, bytes.NewReader(make([]byte, 4<<20+1)))
	assert.ErrorIs(t, err, ErrUploadTooLarge)

	_, err = svc.Save(UploadResource, "notes.anything", 5, strings.NewReader("notes"))
	assert.NoError(t, err, "материалы принимаются с любым расширением")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "отклонённые файлы не остаются на диске")
}

func TestCategoryService_List(t *testing.T) {
	list, err := NewCategoryService(inmem.NewCategoryRepo(inmem.Open())).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list, "пустой список, а не null")

	e := newEnv(t)
	list, err = NewCategoryService(inmem.NewCategoryRepo(e.db)).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "it", list[0].SubCategories[0].CategoryID)
}

func TestInlineUpload(t *testing.T) {
	assert.True(t, InlineUpload("/a/cover.PNG"))
	assert.True(t, InlineUpload("intro.mp4"))
	assert.False(t, InlineUpload("page.html"))
	assert.False(t, InlineUpload("logo.svg"))
	assert.False(t, InlineUpload("slides.pdf"))
}
