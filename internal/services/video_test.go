package services

import (
	"context"
	"coursestudio/internal/models"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signMux(secret string, ts int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyMuxSignature(t *testing.T) {
	body := []byte(`{"type":"video.asset.ready"}`)
	now := time.Unix(1_700_000_000, 0)
	header := signMux("secret", now.Unix(), body)

	assert.NoError(t, VerifyMuxSignature(header, body, "secret", 5*time.Minute, now))
	assert.ErrorIs(t, VerifyMuxSignature(header, body, "другой", 5*time.Minute, now), ErrBadSignature)
	assert.ErrorIs(t, VerifyMuxSignature(header, []byte(`{}`), "secret", 5*time.Minute, now), ErrBadSignature)
	assert.ErrorIs(t, VerifyMuxSignature(header, body, "secret", 5*time.Minute, now.Add(10*time.Minute)), ErrBadSignature)
	assert.ErrorIs(t, VerifyMuxSignature("", body, "secret", 0, now), ErrBadSignature)
	assert.ErrorIs(t, VerifyMuxSignature("t=abc,v1=00", body, "secret", 0, now), ErrBadSignature)
}

func TestMuxClient(t *testing.T) {
	var (
		gotAuth   string
		gotAccept string
		gotInput  string
		deleted   []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/video/v1/assets":
			var body struct {
				Input []struct {
					URL string `json:"url"`
				} `json:"input"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if len(body.Input) > 0 {
				gotInput = body.Input[0].URL
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"data":{"id":"a1","status":"preparing","playback_ids":[{"id":"signed-1","policy":"signed"},{"id":"pub-1","policy":"public"}]}}`)
		case r.Method == http.MethodGet && r.URL.Path == "/video/v1/assets/a1":
			// без Content-Type: тело всё равно разбирается как JSON
			fmt.Fprint(w, `{"data":{"id":"a1","status":"ready","playback_ids":[{"id":"pub-1","policy":"public"}]}}`)
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodDelete:
			deleted = append(deleted, strings.TrimPrefix(r.URL.Path, "/video/v1/assets/"))
			if strings.HasSuffix(r.URL.Path, "/gone") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := NewMuxClient(srv.URL, "token-id", "token-secret")
	ctx := context.Background()

	a, err := c.CreateAsset(ctx, "https://cdn.example.com/v.mp4")
	require.NoError(t, err)
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "pub-1", a.PlaybackID)
	assert.Equal(t, "https://cdn.example.com/v.mp4", gotInput)
	assert.True(t, strings.HasPrefix(gotAuth, "Basic "))
	assert.Equal(t, "application/json", gotAccept)

	a, err = c.GetAsset(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "ready", a.Status)
	assert.Equal(t, "pub-1", a.PlaybackID)

	_, err = c.GetAsset(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, c.DeleteAsset(ctx, "a1"))
	assert.NoError(t, c.DeleteAsset(ctx, "gone"), "404 при удалении не ошибка")
	assert.Equal(t, []string{"a1", "gone"}, deleted)
}

func TestVideoService_HandleAssetEventAndSync(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.course(t, "Курс")
	s1 := e.section(t, c.ID, "один")
	s2 := e.section(t, c.ID, "два")

	require.NoError(t, e.video.Replace(ctx, s1.ID, "https://cdn.example.com/1.mp4"))
	require.NoError(t, e.video.Replace(ctx, s2.ID, "https://cdn.example.com/2.mp4"))

	require.NoError(t, e.video.HandleAssetEvent(ctx, "video.asset.ready", "asset-1", "pb-webhook"))
	d, err := e.sections.GetDetail(ctx, owner, c.ID, s1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetReady, d.Section.MuxData.Status)
	assert.Equal(t, "pb-webhook", d.Section.MuxData.PlaybackID)

	assert.NoError(t, e.video.HandleAssetEvent(ctx, "video.asset.ready", "неизвестный", ""), "неизвестный ассет игнорируется")
	assert.NoError(t, e.video.HandleAssetEvent(ctx, "video.asset.created", "asset-2", ""))

	// второй ассет готов у провайдера, но webhook не пришёл
	e.provider.status["asset-2"] = "ready"
	n, err := e.video.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	d, err = e.sections.GetDetail(ctx, owner, c.ID, s2.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetReady, d.Section.MuxData.Status)
	assert.Equal(t, "pb-asset-2", d.Section.MuxData.PlaybackID)

	n, err = e.video.SyncPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestVideoService_Disabled(t *testing.T) {
	var v *VideoService
	assert.False(t, v.Enabled())
	assert.NoError(t, v.Replace(context.Background(), "s", "https://x/y.mp4"))
	assert.NoError(t, v.Remove(context.Background(), "s"))

	n, err := NewVideoService(nil, nil).SyncPending(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestVideoService_ReplaceWithEmptyURLRemoves(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.course(t, "Курс")
	s := e.section(t, c.ID, "видео")

	require.NoError(t, e.video.Replace(ctx, s.ID, "https://cdn.example.com/1.mp4"))
	require.NoError(t, e.video.Replace(ctx, s.ID, ""))

	d, err := e.sections.GetDetail(ctx, owner, c.ID, s.ID)
	require.NoError(t, err)
	assert.Nil(t, d.Section.MuxData)
	assert.Equal(t, []string{"asset-1"}, e.provider.deleted)
}

func TestAssetStatus(t *testing.T) {
	assert.Equal(t, models.AssetReady, assetStatus("ready"))
	assert.Equal(t, models.AssetErrored, assetStatus("errored"))
	assert.Equal(t, models.AssetPreparing, assetStatus("preparing"))
	assert.Equal(t, models.AssetPreparing, assetStatus(""))
}
