package handlers

import (
	"errors"
	"net/http"

	"coursestudio/internal/logger"
	"coursestudio/internal/services"
	helpers "coursestudio/internal/utils/helpers"

	"go.uber.org/zap"
)

type UploadHandler struct {
	svc *services.UploadService
}

func NewUploadHandler(svc *services.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Upload godoc
// @Summary      Загрузить файл
// @Description  kind: image (до 4 МБ), video (до 512 МБ), resource (до 16 МБ)
// @Tags         uploads
// @Security     ApiKeyAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true  "Файл"
// @Param        kind  formData  string  true  "image|video|resource"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  helpers.Response
// @Router       /api/uploads [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	if _, ok := currentUser(w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadBytes()+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Warn("uploads: ошибка разбора формы", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Ошибка разбора формы")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn("uploads: файл не найден", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Файл не найден")
		return
	}
	defer file.Close()

	kind := r.FormValue("kind")
	url, err := h.svc.Save(kind, header.Filename, header.Size, file)
	if err != nil {
		if errors.Is(err, services.ErrUploadKind) || errors.Is(err, services.ErrUploadTooLarge) || errors.Is(err, services.ErrUploadType) {
			log.Warn("uploads: файл отклонён", zap.String("kind", kind), zap.Error(err))
			helpers.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("uploads: ошибка сохранения файла", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка при сохранении файла")
		return
	}

	log.Info("uploads: файл загружен", zap.String("kind", kind), zap.String("filename", header.Filename))
	helpers.JSON(w, http.StatusCreated, map[string]string{"url": url})
}
