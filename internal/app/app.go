package app

import (
	"context"
	"coursestudio/internal/config"
	"coursestudio/internal/db"
	"coursestudio/internal/handlers"
	"coursestudio/internal/logger"
	"coursestudio/internal/models"
	"coursestudio/internal/repository"
	"coursestudio/internal/repository/inmem"
	"coursestudio/internal/routes"
	"coursestudio/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Repos: набор репозиториев одного хранилища.
type Repos struct {
	Courses    repository.CourseRepo
	Sections   repository.SectionRepo
	Resources  repository.ResourceRepo
	MuxData    repository.MuxDataRepo
	Progress   repository.ProgressRepo
	Categories repository.CategoryRepo
	Purchases  repository.PurchaseRepo
}

func MemoryRepos(m *inmem.DB) Repos {
	return Repos{
		Courses:    inmem.NewCourseRepo(m),
		Sections:   inmem.NewSectionRepo(m),
		Resources:  inmem.NewResourceRepo(m),
		MuxData:    inmem.NewMuxDataRepo(m),
		Progress:   inmem.NewProgressRepo(m),
		Categories: inmem.NewCategoryRepo(m),
		Purchases:  inmem.NewPurchaseRepo(m),
	}
}

// NewRouter собирает сервисы, хендлеры и маршруты поверх готовых репозиториев.
func NewRouter(cfg *config.Config, repos Repos, video *services.VideoService, events services.Emitter) *mux.Router {
	// Сервисы
	courseSvc := services.NewCourseService(repos.Courses, repos.Sections, repos.Categories, video, events)
	sectionSvc := services.NewSectionService(repos.Courses, repos.Sections, repos.Resources, repos.MuxData, repos.Progress, video, events)
	resourceSvc := services.NewResourceService(repos.Courses, repos.Sections, repos.Resources)
	progressSvc := services.NewProgressService(repos.Courses, repos.Sections, repos.Progress)
	categorySvc := services.NewCategoryService(repos.Categories)
	performanceSvc := services.NewPerformanceService(repos.Courses, repos.Purchases)
	uploadSvc := services.NewUploadService(cfg.UploadDir, cfg.PublicURL)

	// Хендлеры
	h := routes.Handlers{
		Course:      handlers.NewCourseHandler(courseSvc),
		Section:     handlers.NewSectionHandler(sectionSvc),
		Resource:    handlers.NewResourceHandler(resourceSvc),
		Progress:    handlers.NewProgressHandler(progressSvc),
		Category:    handlers.NewCategoryHandler(categorySvc),
		Performance: handlers.NewPerformanceHandler(performanceSvc),
		Upload:      handlers.NewUploadHandler(uploadSvc),
		Webhook:     handlers.NewWebhookHandler(video, cfg.MuxWebhookSecret),
	}

	router := mux.NewRouter()
	routes.InitRoutes(router, h, cfg.JWTSecret, uploadSvc.Dir())
	return router
}

// InitApp поднимает хранилище, интеграции и фоновые задачи.
// Возвращаемая cleanup останавливает их в обратном порядке.
func InitApp(ctx context.Context, cfg *config.Config) (*mux.Router, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var repos Repos
	switch cfg.Storage {
	case "memory":
		m := inmem.Open()
		seedCategories(m)
		repos = MemoryRepos(m)
	default:
		pool, err := db.NewPostgresConnection(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Log.Info("Подключение к БД установлено", zap.String("dsn", cfg.GetDSNSafe()))
		closers = append(closers, pool.Close)
		repos = Repos{
			Courses:    repository.NewCourseRepo(pool),
			Sections:   repository.NewSectionRepo(pool),
			Resources:  repository.NewResourceRepo(pool),
			MuxData:    repository.NewMuxDataRepo(pool),
			Progress:   repository.NewProgressRepo(pool),
			Categories: repository.NewCategoryRepo(pool),
			Purchases:  repository.NewPurchaseRepo(pool),
		}
	}

	// Видео: без ключей Mux интеграция выключена
	var provider services.VideoProvider
	if cfg.MuxEnabled() {
		provider = services.NewMuxClient(cfg.MuxBaseURL, cfg.MuxTokenID, cfg.MuxTokenSecret)
	}
	video := services.NewVideoService(provider, repos.MuxData)

	// События авторинга
	var sink services.EventSink = services.LogSink{}
	if cfg.RedisAddr != "" {
		rs, err := services.NewRedisSink(ctx, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			logger.Log.Warn("Redis недоступен, события только логируются", zap.Error(err))
		} else {
			sink = rs
			closers = append(closers, func() { _ = rs.Close() })
		}
	}
	bus := services.NewEventBus(sink, 256)
	bus.Start(3)
	closers = append(closers, bus.Close)

	if video.Enabled() {
		c, err := services.StartAssetSync(cfg.AssetSyncCron, video)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { <-c.Stop().Done() })
		logger.Log.Info("Синхронизация видео-ассетов запущена", zap.String("schedule", cfg.AssetSyncCron))
	}

	return NewRouter(cfg, repos, video, bus), cleanup, nil
}

// seedCategories заполняет справочник для STORAGE=memory.
func seedCategories(m *inmem.DB) {
	m.SeedCategory(models.Category{ID: "it", Name: "IT и программирование", SubCategories: []models.SubCategory{
		{ID: "web", Name: "Веб-разработка"},
		{ID: "data", Name: "Анализ данных"},
		{ID: "mobile", Name: "Мобильная разработка"},
	}})
	m.SeedCategory(models.Category{ID: "business", Name: "Бизнес", SubCategories: []models.SubCategory{
		{ID: "marketing", Name: "Маркетинг"},
		{ID: "finance", Name: "Финансы"},
	}})
	m.SeedCategory(models.Category{ID: "design", Name: "Дизайн", SubCategories: []models.SubCategory{
		{ID: "ui", Name: "UI/UX"},
		{ID: "graphics", Name: "Графический дизайн"},
	}})
}
