// Package inmem реализует хранилище в памяти с теми же контрактами, что и pgx-репозитории.
// Используется в тестах и при STORAGE=memory.
package inmem

import (
	"coursestudio/internal/models"
	"sync"
	"time"
)

type DB struct {
	mu sync.RWMutex

	categories []models.Category
	courses    map[string]*models.Course
	sections   map[string]*models.Section
	resources  map[string]*models.Resource
	muxData    map[string]*models.MuxData // по section_id
	progress   map[progressKey]bool
	purchases  []purchase

	now func() time.Time
}

type progressKey struct{ student, section string }

type purchase struct {
	courseID string
	price    float64
}

func Open() *DB {
	return &DB{
		courses:   make(map[string]*models.Course),
		sections:  make(map[string]*models.Section),
		resources: make(map[string]*models.Resource),
		muxData:   make(map[string]*models.MuxData),
		progress:  make(map[progressKey]bool),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SeedCategory добавляет категорию с подкатегориями.
func (db *DB) SeedCategory(c models.Category) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i := range c.SubCategories {
		c.SubCategories[i].CategoryID = c.ID
	}
	db.categories = append(db.categories, c)
}

// SeedPurchase регистрирует продажу курса (покупки создаются вне авторинга).
func (db *DB) SeedPurchase(courseID string, price float64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.purchases = append(db.purchases, purchase{courseID: courseID, price: price})
}
