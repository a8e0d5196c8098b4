package services

import (
	"context"
	"coursestudio/internal/logger"
	"coursestudio/internal/models"
	"coursestudio/internal/repository"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Asset: видео у провайдера транскодирования.
type Asset struct {
	ID         string
	PlaybackID string
	Status     string
}

type VideoProvider interface {
	CreateAsset(ctx context.Context, inputURL string) (*Asset, error)
	GetAsset(ctx context.Context, assetID string) (*Asset, error)
	DeleteAsset(ctx context.Context, assetID string) error
}

type MuxClient struct {
	http *resty.Client
}

func NewMuxClient(baseURL, tokenID, tokenSecret string) *MuxClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetBasicAuth(tokenID, tokenSecret).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)
	return &MuxClient{http: c}
}

type muxAsset struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	PlaybackIDs []struct {
		ID     string `json:"id"`
		Policy string `json:"policy"`
	} `json:"playback_ids"`
}

type muxAssetEnvelope struct {
	Data muxAsset `json:"data"`
}

func (a muxAsset) toAsset() *Asset {
	out := &Asset{ID: a.ID, Status: a.Status}
	for _, p := range a.PlaybackIDs {
		if p.Policy == "public" || out.PlaybackID == "" {
			out.PlaybackID = p.ID
		}
	}
	return out
}

func (c *MuxClient) CreateAsset(ctx context.Context, inputURL string) (*Asset, error) {
	var res muxAssetEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"input":           []map[string]string{{"url": inputURL}},
			"playback_policy": []string{"public"},
		}).
		SetResult(&res).
		ForceContentType("application/json").
		Post("/video/v1/assets")
	if err != nil {
		return nil, fmt.Errorf("mux: создание ассета: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("mux: создание ассета: статус %d: %s", resp.StatusCode(), resp.String())
	}
	return res.Data.toAsset(), nil
}

func (c *MuxClient) GetAsset(ctx context.Context, assetID string) (*Asset, error) {
	var res muxAssetEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", assetID).
		SetResult(&res).
		ForceContentType("application/json").
		Get("/video/v1/assets/{id}")
	if err != nil {
		return nil, fmt.Errorf("mux: получение ассета: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("mux: получение ассета: статус %d", resp.StatusCode())
	}
	return res.Data.toAsset(), nil
}

func (c *MuxClient) DeleteAsset(ctx context.Context, assetID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", assetID).
		Delete("/video/v1/assets/{id}")
	if err != nil {
		return fmt.Errorf("mux: удаление ассета: %w", err)
	}
	// уже удалён, не ошибка
	if resp.IsError() && resp.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("mux: удаление ассета: статус %d", resp.StatusCode())
	}
	return nil
}

// assetStatus переводит статус Mux в статус MuxData.
func assetStatus(s string) string {
	switch s {
	case "ready":
		return models.AssetReady
	case "errored":
		return models.AssetErrored
	default:
		return models.AssetPreparing
	}
}

var ErrBadSignature = errors.New("неверная подпись webhook")

// VerifyMuxSignature проверяет заголовок Mux-Signature вида "t=<unix>,v1=<hex>".
func VerifyMuxSignature(header string, body []byte, secret string, tolerance time.Duration, now time.Time) error {
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		return ErrBadSignature
	}
	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	if tolerance > 0 && now.Sub(time.Unix(unix, 0)).Abs() > tolerance {
		return fmt.Errorf("%w: устаревшая метка времени", ErrBadSignature)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "."))
	mac.Write(body)
	want := mac.Sum(nil)

	got, err := hex.DecodeString(sig)
	if err != nil || !hmac.Equal(got, want) {
		return ErrBadSignature
	}
	return nil
}

// VideoService связывает разделы с ассетами провайдера.
// С nil-провайдером интеграция выключена: MuxData не создаются.
type VideoService struct {
	provider VideoProvider
	repo     repository.MuxDataRepo
}

func NewVideoService(provider VideoProvider, repo repository.MuxDataRepo) *VideoService {
	return &VideoService{provider: provider, repo: repo}
}

func (s *VideoService) Enabled() bool { return s != nil && s.provider != nil }

// Replace удаляет прежний ассет раздела и, если url не пуст, создаёт новый.
func (s *VideoService) Replace(ctx context.Context, sectionID, videoURL string) error {
	if !s.Enabled() {
		return nil
	}
	log := logger.WithCtx(ctx)

	if err := s.Remove(ctx, sectionID); err != nil {
		return err
	}
	if strings.TrimSpace(videoURL) == "" {
		return nil
	}

	asset, err := s.provider.CreateAsset(ctx, videoURL)
	if err != nil {
		log.Error("Не удалось создать видео-ассет", zap.String("section_id", sectionID), zap.Error(err))
		return err
	}
	md := &models.MuxData{
		SectionID:  sectionID,
		AssetID:    asset.ID,
		PlaybackID: asset.PlaybackID,
		Status:     assetStatus(asset.Status),
	}
	if err := s.repo.Upsert(ctx, md); err != nil {
		return err
	}
	log.Info("Видео-ассет создан", zap.String("section_id", sectionID), zap.String("asset_id", asset.ID))
	return nil
}

// AssetMissing сообщает, что у раздела нет MuxData при включённой интеграции.
func (s *VideoService) AssetMissing(ctx context.Context, sectionID string) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	_, err := s.repo.GetBySection(ctx, sectionID)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	return false, err
}

// Remove удаляет ассет раздела у провайдера и запись MuxData.
func (s *VideoService) Remove(ctx context.Context, sectionID string) error {
	if !s.Enabled() {
		return nil
	}
	existing, err := s.repo.GetBySection(ctx, sectionID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.provider.DeleteAsset(ctx, existing.AssetID); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось удалить видео-ассет у провайдера",
			zap.String("asset_id", existing.AssetID), zap.Error(err))
	}
	return s.repo.DeleteBySection(ctx, sectionID)
}

// HandleAssetEvent применяет событие webhook к MuxData.
func (s *VideoService) HandleAssetEvent(ctx context.Context, eventType, assetID, playbackID string) error {
	var status string
	switch eventType {
	case "video.asset.ready":
		status = models.AssetReady
	case "video.asset.errored":
		status = models.AssetErrored
	default:
		return nil
	}
	err := s.repo.UpdateByAsset(ctx, assetID, status, playbackID)
	if errors.Is(err, ErrNotFound) {
		// ассет уже заменён или удалён
		logger.WithCtx(ctx).Info("Webhook для неизвестного ассета", zap.String("asset_id", assetID))
		return nil
	}
	return err
}

// SyncPending опрашивает провайдера по ассетам, которые всё ещё готовятся.
func (s *VideoService) SyncPending(ctx context.Context) (updated int, err error) {
	if !s.Enabled() {
		return 0, nil
	}
	pending, err := s.repo.ListByStatus(ctx, models.AssetPreparing)
	if err != nil {
		return 0, err
	}
	for _, md := range pending {
		asset, err := s.provider.GetAsset(ctx, md.AssetID)
		if err != nil {
			logger.Log.Warn("Синхронизация ассета не удалась", zap.String("asset_id", md.AssetID), zap.Error(err))
			continue
		}
		st := assetStatus(asset.Status)
		if st == md.Status {
			continue
		}
		if err := s.repo.UpdateByAsset(ctx, md.AssetID, st, asset.PlaybackID); err != nil {
			logger.Log.Warn("Не удалось обновить статус ассета", zap.String("asset_id", md.AssetID), zap.Error(err))
			continue
		}
		updated++
	}
	return updated, nil
}
