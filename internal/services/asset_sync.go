package services

import (
	"context"
	"coursestudio/internal/logger"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartAssetSync периодически добирает статусы ассетов, для которых webhook не пришёл.
func StartAssetSync(spec string, video *VideoService) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		n, err := video.SyncPending(ctx)
		if err != nil {
			logger.Log.Error("Синхронизация видео-ассетов завершилась ошибкой", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Log.Info("Статусы видео-ассетов обновлены", zap.Int("updated", n))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
