package services

import (
	"context"
	"coursestudio/internal/logger"
	"coursestudio/internal/models"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Emitter принимает события изменений курса. Emit не должен блокировать запрос.
type Emitter interface {
	Emit(ev models.Event)
}

// EventSink доставляет событие подписчикам (Redis pub/sub, лог).
type EventSink interface {
	Publish(ctx context.Context, ev models.Event) error
}

type EventBus struct {
	queue chan models.Event
	sink  EventSink
	wg    sync.WaitGroup
	once  sync.Once
}

func NewEventBus(sink EventSink, size int) *EventBus {
	if size <= 0 {
		size = 100
	}
	return &EventBus{queue: make(chan models.Event, size), sink: sink}
}

// Start запускает воркеры, разбирающие очередь.
func (b *EventBus) Start(workers int) {
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for ev := range b.queue {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := b.sink.Publish(ctx, ev); err != nil {
					logger.Log.Error("Не удалось опубликовать событие",
						zap.String("type", ev.Type), zap.String("course_id", ev.CourseID), zap.Error(err))
				}
				cancel()
			}
		}()
	}
}

func (b *EventBus) Emit(ev models.Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	select {
	case b.queue <- ev:
	default:
		logger.Log.Warn("Очередь событий переполнена, событие отброшено",
			zap.String("type", ev.Type), zap.String("course_id", ev.CourseID))
	}
}

// Close дожидается доставки уже поставленных в очередь событий.
func (b *EventBus) Close() {
	b.once.Do(func() {
		close(b.queue)
		b.wg.Wait()
	})
}

type LogSink struct{}

func (LogSink) Publish(_ context.Context, ev models.Event) error {
	logger.Log.Info("Событие авторинга",
		zap.String("type", ev.Type),
		zap.String("course_id", ev.CourseID),
		zap.String("section_id", ev.SectionID),
		zap.String("actor_id", ev.ActorID),
	)
	return nil
}

type RedisSink struct {
	rdb     *goredis.Client
	channel string
}

func NewRedisSink(ctx context.Context, addr, channel string) (*RedisSink, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisSink{rdb: rdb, channel: channel}, nil
}

func (s *RedisSink) Publish(ctx context.Context, ev models.Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.rdb.Publish(ctx, s.channel, raw).Err()
}

func (s *RedisSink) Close() error { return s.rdb.Close() }
