package authoring

import (
	"context"
	"errors"
	"sync"

	"coursestudio/internal/models"
)

// ErrDropOutside: перетаскивание закончилось вне списка, жест отменён.
var ErrDropOutside = errors.New("элемент отпущен вне списка")

type ListItem struct {
	ID          string
	Title       string
	IsPublished bool
	IsFree      bool
}

func ItemsFromSections(sections []models.Section) []ListItem {
	items := make([]ListItem, 0, len(sections))
	for _, s := range sections {
		items = append(items, ListItem{ID: s.ID, Title: s.Title, IsPublished: s.IsPublished, IsFree: s.IsFree})
	}
	return items
}

type ReorderFunc func(ctx context.Context, list []models.PositionUpdate) error

type ListOption func(*SectionList)

// WithRollback возвращает прежний порядок, если сохранение перестановки не удалось.
// По умолчанию список оставляет новый порядок до следующей загрузки с сервера.
func WithRollback() ListOption {
	return func(l *SectionList) { l.rollback = true }
}

// SectionList: упорядоченный список разделов с перетаскиванием.
// Каждый завершённый жест отдаёт в onReorder позиции всех элементов, а не только сдвинутого.
type SectionList struct {
	mu        sync.Mutex
	items     []ListItem
	gen       int
	onReorder ReorderFunc
	onEdit    func(id string)
	rollback  bool
}

func NewSectionList(items []ListItem, onReorder ReorderFunc, onEdit func(id string), opts ...ListOption) *SectionList {
	l := &SectionList{
		items:     append([]ListItem(nil), items...),
		onReorder: onReorder,
		onEdit:    onEdit,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *SectionList) Items() []ListItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ListItem(nil), l.items...)
}

// Reset заменяет содержимое данными сервера.
func (l *SectionList) Reset(items []ListItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]ListItem(nil), items...)
	l.gen++
}

// Positions: позиции элементов по их текущему порядку.
func Positions(items []ListItem) []models.PositionUpdate {
	out := make([]models.PositionUpdate, len(items))
	for i, it := range items {
		out[i] = models.PositionUpdate{ID: it.ID, Position: i}
	}
	return out
}

// move возвращает новый срез, где элемент from стоит на индексе to.
func move(items []ListItem, from, to int) []ListItem {
	out := make([]ListItem, 0, len(items))
	moved := items[from]
	for i, it := range items {
		if i != from {
			out = append(out, it)
		}
	}
	out = append(out, ListItem{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}

// Drop завершает жест перетаскивания: элемент from переезжает на индекс to.
// onReorder вызывается ровно один раз, даже если элемент вернулся на своё место.
func (l *SectionList) Drop(ctx context.Context, from, to int) error {
	l.mu.Lock()
	n := len(l.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		l.mu.Unlock()
		return ErrDropOutside
	}
	prev := l.items
	l.items = move(prev, from, to)
	l.gen++
	gen := l.gen
	updates := Positions(l.items)
	l.mu.Unlock()

	if l.onReorder == nil {
		return nil
	}
	err := l.onReorder(ctx, updates)
	if err != nil && l.rollback {
		l.mu.Lock()
		// список уже перезагружен или снова переставлен
		if l.gen == gen {
			l.items = prev
			l.gen++
		}
		l.mu.Unlock()
	}
	return err
}

// Select: клик по элементу без перетаскивания: открыть раздел на редактирование.
func (l *SectionList) Select(id string) bool {
	l.mu.Lock()
	found := false
	for _, it := range l.items {
		if it.ID == id {
			found = true
			break
		}
	}
	l.mu.Unlock()

	if !found || l.onEdit == nil {
		return false
	}
	l.onEdit(id)
	return true
}
