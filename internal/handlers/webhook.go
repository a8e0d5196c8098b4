package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"coursestudio/internal/logger"
	"coursestudio/internal/services"
	helpers "coursestudio/internal/utils/helpers"

	"go.uber.org/zap"
)

const muxSignatureTolerance = 5 * time.Minute

type WebhookHandler struct {
	video  *services.VideoService
	secret string
	now    func() time.Time
}

func NewWebhookHandler(video *services.VideoService, secret string) *WebhookHandler {
	return &WebhookHandler{video: video, secret: secret, now: time.Now}
}

type muxWebhook struct {
	Type string `json:"type"`
	Data struct {
		ID          string `json:"id"`
		PlaybackIDs []struct {
			ID string `json:"id"`
		} `json:"playback_ids"`
	} `json:"data"`
}

// HandleMux godoc
// @Summary      Webhook видеопровайдера
// @Description  Обновляет статус ассета (video.asset.ready / video.asset.errored)
// @Tags         webhooks
// @Accept       json
// @Success      200  {object}  helpers.Response
// @Failure      401  {object}  helpers.Response
// @Router       /api/webhooks/mux [post]
func (h *WebhookHandler) HandleMux(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		log.Warn("webhook: не удалось прочитать тело", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad body")
		return
	}

	if h.secret != "" {
		if err := services.VerifyMuxSignature(r.Header.Get("Mux-Signature"), body, h.secret, muxSignatureTolerance, h.now()); err != nil {
			log.Warn("webhook: неверная подпись", zap.Error(err))
			helpers.Error(w, http.StatusUnauthorized, "invalid signature")
			return
		}
	}

	var ev muxWebhook
	if err := json.Unmarshal(body, &ev); err != nil {
		log.Warn("webhook: невалидный JSON", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "bad json")
		return
	}

	playbackID := ""
	if len(ev.Data.PlaybackIDs) > 0 {
		playbackID = ev.Data.PlaybackIDs[0].ID
	}

	log.Info("webhook: событие видеопровайдера", zap.String("type", ev.Type), zap.String("asset_id", ev.Data.ID))
	if err := h.video.HandleAssetEvent(r.Context(), ev.Type, ev.Data.ID, playbackID); err != nil {
		log.Error("webhook: ошибка обработки события", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
