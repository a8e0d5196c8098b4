package routes

import (
	"coursestudio/internal/handlers"
	"coursestudio/internal/middleware"
	"coursestudio/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Course      *handlers.CourseHandler
	Section     *handlers.SectionHandler
	Resource    *handlers.ResourceHandler
	Progress    *handlers.ProgressHandler
	Category    *handlers.CategoryHandler
	Performance *handlers.PerformanceHandler
	Upload      *handlers.UploadHandler
	Webhook     *handlers.WebhookHandler
}

func InitRoutes(router *mux.Router, h Handlers, jwtSecret, uploadDir string) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.Logging)

	// Загруженные файлы отдаются без авторизации: ссылки уходят в курсы.
	router.PathPrefix("/uploads/").Handler(
		middleware.UploadHeaders(services.InlineUpload)(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))),
		),
	).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/webhooks/mux", h.Webhook.HandleMux).Methods(http.MethodPost)

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(jwtSecret))

	protected.HandleFunc("/categories", h.Category.List).Methods(http.MethodGet)
	protected.HandleFunc("/performance", h.Performance.Get).Methods(http.MethodGet)
	protected.HandleFunc("/uploads", h.Upload.Upload).Methods(http.MethodPost)

	protected.HandleFunc("/courses", h.Course.List).Methods(http.MethodGet)
	protected.HandleFunc("/courses", h.Course.Create).Methods(http.MethodPost)

	course := protected.PathPrefix("/courses/{courseId}").Subrouter()
	course.HandleFunc("", h.Course.Get).Methods(http.MethodGet)
	course.HandleFunc("", h.Course.Update).Methods(http.MethodPatch)
	course.HandleFunc("", h.Course.Delete).Methods(http.MethodDelete)
	course.HandleFunc("/publish", h.Course.Publish).Methods(http.MethodPost)
	course.HandleFunc("/unpublish", h.Course.Unpublish).Methods(http.MethodPost)

	// reorder регистрируется раньше /sections/{sectionId}
	course.HandleFunc("/sections/reorder", h.Section.Reorder).Methods(http.MethodPut)
	course.HandleFunc("/sections", h.Section.Create).Methods(http.MethodPost)

	section := course.PathPrefix("/sections/{sectionId}").Subrouter()
	section.HandleFunc("", h.Section.Get).Methods(http.MethodGet)
	section.HandleFunc("", h.Section.Update).Methods(http.MethodPost)
	section.HandleFunc("", h.Section.Delete).Methods(http.MethodDelete)
	section.HandleFunc("/publish", h.Section.Publish).Methods(http.MethodPost, http.MethodDelete)
	section.HandleFunc("/unpublish", h.Section.Unpublish).Methods(http.MethodPost, http.MethodDelete)
	section.HandleFunc("/progress", h.Progress.Set).Methods(http.MethodPost, http.MethodPut)
	section.HandleFunc("/resources", h.Resource.Create).Methods(http.MethodPost)
	section.HandleFunc("/resources/{resourceId}", h.Resource.Delete).Methods(http.MethodPost, http.MethodDelete)
}
