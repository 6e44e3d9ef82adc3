package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blart-ai/blart-server/internal/app"
	"github.com/blart-ai/blart-server/internal/config"
	"github.com/blart-ai/blart-server/internal/db"
	"github.com/blart-ai/blart-server/internal/db/drivers"
	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/db/repository"
	"github.com/blart-ai/blart-server/internal/services/filestorage"
	"github.com/blart-ai/blart-server/internal/services/generation"
	"github.com/blart-ai/blart-server/internal/services/ratelimit"
	"github.com/blart-ai/blart-server/internal/utils/hashutil"

	"github.com/google/uuid"
)

const (
	adminSecret = "admin-secret"
	cronSecret  = "cron-secret"
)

type stubSynth struct{}

func (stubSynth) Synthesize(ctx context.Context, prompt string, images []generation.InlineImage) (*generation.Image, error) {
	return &generation.Image{MIMEType: "image/png", Data: []byte("png-bytes")}, nil
}

func (stubSynth) Model() string { return "stub-model" }

type testEnv struct {
	app     *app.App
	handler http.Handler
	style   *models.Style
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	cfg := &config.Config{
		Environment:    "test",
		Host:           "localhost",
		Port:           8881,
		PublicURL:      "https://blart.test",
		AssetsDir:      t.TempDir(),
		FilesystemType: config.FilesystemLocal,
		AdminSecret:    adminSecret,
		CronSecret:     cronSecret,
		Generation:     config.GenerationConfig{DailyCount: 2},
	}

	driver, err := drivers.NewSQLiteDriver(ctx, drivers.SQLiteDriverName, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	bunDB := driver.GetDB()
	if err := db.CreateTables(ctx, bunDB); err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}

	storage, err := filestorage.NewLocalFileStorage(cfg)
	if err != nil {
		t.Fatal(err)
	}

	tick := time.UnixMilli(1700000000000)
	service := generation.NewService(generation.Dependencies{
		Styles:      repository.NewStyleRepository(bunDB),
		Settings:    repository.NewSettingRepository(bunDB),
		Artworks:    repository.NewArtworkRepository(bunDB),
		Events:      repository.NewEventRepository(bunDB),
		Blobs:       storage,
		Synthesizer: stubSynth{},
	},
		generation.WithSleeper(func(context.Context, time.Duration) error { return nil }),
		generation.WithClock(func() time.Time {
			tick = tick.Add(time.Millisecond)
			return tick
		}),
	)

	a, err := app.NewApp(cfg,
		app.WithDB(driver),
		app.WithFileStorage(storage),
		app.WithRateLimiter(ratelimit.NewMemoryLimiter(2)),
		app.WithGenerationService(service),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Close)

	style := models.NewStyle("Celestial", "celestial", "", "", 0)
	if _, err := a.StyleRepository.Create(ctx, style); err != nil {
		t.Fatal(err)
	}

	srv, err := NewServer(cfg, a.Logger)
	if err != nil {
		t.Fatal(err)
	}
	srv.SetupRoutes(a)

	return &testEnv{app: a, handler: srv.Handler(), style: style}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func (e *testEnv) admin(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	return e.do(t, method, path, body, map[string]string{"Authorization": "Bearer " + adminSecret})
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d %v", rec.Code, body)
	}
}

func TestAdminAuthentication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	valid := "blart_validkey"
	revoked := "blart_revokedkey"
	env.app.APIKeyRepository.Create(ctx, models.NewAPIKey(hashutil.Sha3256Hash([]byte(valid)), "mask"))
	revokedKey := models.NewAPIKey(hashutil.Sha3256Hash([]byte(revoked)), "mask")
	revokedKey.IsRevoked = true
	env.app.APIKeyRepository.Create(ctx, revokedKey)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"no credentials", nil, http.StatusUnauthorized},
		{"wrong secret", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"admin secret", map[string]string{"Authorization": "Bearer " + adminSecret}, http.StatusOK},
		{"api key", map[string]string{"X-API-Key": valid}, http.StatusOK},
		{"unknown api key", map[string]string{"X-API-Key": "blart_other"}, http.StatusUnauthorized},
		{"revoked api key", map[string]string{"X-API-Key": revoked}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := env.do(t, http.MethodGet, "/api/admin/styles", nil, tt.headers)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestStyleAdministration(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.admin(t, http.MethodPost, "/api/admin/styles", map[string]any{"name": "Ocean & Water"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create = %d %v", rec.Code, body)
	}
	style := body["style"].(map[string]any)
	if style["slug"] != "ocean-water" || style["prompt_prefix"] != "Create a ocean & water artwork" || style["sort_order"] != float64(1) {
		t.Errorf("style = %v", style)
	}

	rec, _ = env.admin(t, http.MethodPost, "/api/admin/styles", map[string]any{"name": "ocean water"})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate slug = %d", rec.Code)
	}

	rec, _ = env.admin(t, http.MethodPost, "/api/admin/styles", map[string]any{"name": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name = %d", rec.Code)
	}

	id := style["id"].(string)
	rec, body = env.admin(t, http.MethodPatch, "/api/admin/styles/"+id, map[string]any{"name": "Ocean", "is_active": false})
	updated := body["style"].(map[string]any)
	if rec.Code != http.StatusOK || updated["name"] != "Ocean" || updated["slug"] != "ocean-water" || updated["is_active"] != false {
		t.Errorf("update = %d %v", rec.Code, updated)
	}

	rec, body = env.admin(t, http.MethodPost, "/api/admin/styles/"+id+"/reference-images", map[string]any{"image_data_url": "data:image/jpeg;base64,aGVsbG8="})
	if rec.Code != http.StatusOK {
		t.Fatalf("upload = %d %v", rec.Code, body)
	}
	uploaded := body["uploaded_url"].(string)
	if !strings.HasPrefix(uploaded, "http://localhost:8881/files/reference-images/"+id+"/") || !strings.HasSuffix(uploaded, ".jpg") {
		t.Errorf("uploaded url = %q", uploaded)
	}

	rec, body = env.admin(t, http.MethodDelete, "/api/admin/styles/"+id+"/reference-images", map[string]any{"url": uploaded})
	if rec.Code != http.StatusOK || len(body["style"].(map[string]any)["reference_images"].([]any)) != 0 {
		t.Errorf("remove = %d %v", rec.Code, body)
	}

	rec, _ = env.admin(t, http.MethodDelete, "/api/admin/styles/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("delete unused style = %d", rec.Code)
	}

	rec, _ = env.admin(t, http.MethodPatch, "/api/admin/styles/not-a-uuid", map[string]any{"name": "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("bad id = %d", rec.Code)
	}
}

func TestGenerateValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"single without style", map[string]any{"mode": "single"}, http.StatusBadRequest},
		{"unknown mode", map[string]any{"mode": "bulk", "style_id": env.style.ID.String()}, http.StatusBadRequest},
		{"capitalised orientation", map[string]any{"style_id": env.style.ID.String(), "orientation": "Portrait"}, http.StatusBadRequest},
		{"batch with unknown orientation", map[string]any{"mode": "batch", "count": 1, "orientation": "wide"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := env.admin(t, http.MethodPost, "/api/admin/generate", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	rec, _ := env.admin(t, http.MethodPost, "/api/admin/generate/preview", map[string]any{"style_id": env.style.ID.String(), "orientation": "SQUARE"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("preview with unknown orientation = %d", rec.Code)
	}

	rec, body := env.admin(t, http.MethodPost, "/api/admin/generate", map[string]any{"style_id": uuid.NewString()})
	if rec.Code != http.StatusOK || body["success"] != false || !strings.HasPrefix(body["error"].(string), "style not found") {
		t.Errorf("unknown style = %d %v", rec.Code, body)
	}
}

func TestGenerateReviewPublishDownload(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.admin(t, http.MethodPost, "/api/admin/generate", map[string]any{
		"style_id":    env.style.ID.String(),
		"orientation": "portrait",
	})
	if rec.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("generate = %d %v", rec.Code, body)
	}
	artworkID := body["artwork_id"].(string)
	slug := body["slug"].(string)

	_, body = env.admin(t, http.MethodGet, "/api/admin/artworks?status=review", nil)
	if got := len(body["artworks"].([]any)); got != 1 {
		t.Errorf("review queue = %d", got)
	}

	_, body = env.do(t, http.MethodGet, "/api/gallery", nil, nil)
	if body["total_results"] != float64(0) {
		t.Errorf("unpublished artwork listed: %v", body)
	}
	// failed lookups still spend one of the two daily downloads
	rec, _ = env.do(t, http.MethodGet, "/api/artworks/"+slug+"/download", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("download of unpublished artwork = %d", rec.Code)
	}

	rec, body = env.admin(t, http.MethodPost, "/api/admin/artworks/"+artworkID+"/publish", map[string]any{"title": "Nova Prime"})
	if rec.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("publish = %d %v", rec.Code, body)
	}

	_, body = env.do(t, http.MethodGet, "/api/gallery?style=celestial", nil, nil)
	artworks := body["artworks"].([]any)
	if len(artworks) != 1 {
		t.Fatalf("gallery = %v", body)
	}
	listed := artworks[0].(map[string]any)
	if listed["title"] != "Nova Prime" || listed["slug"] != slug || listed["style"] != "Celestial" {
		t.Errorf("listed = %v", listed)
	}
	if page := listed["urls"].(map[string]any)["page"]; page != "https://blart.test/artwork/"+slug {
		t.Errorf("page url = %v", page)
	}

	rec, body = env.do(t, http.MethodGet, "/api/artworks/"+slug+"/download", nil, nil)
	if rec.Code != http.StatusOK || body["success"] != true || !strings.HasSuffix(body["filename"].(string), "-4k.png") {
		t.Fatalf("download = %d %v", rec.Code, body)
	}

	rec, body = env.do(t, http.MethodGet, "/api/artworks/"+slug+"/download", nil, nil)
	if rec.Code != http.StatusTooManyRequests || body["message"] != "rate limit exceeded. Max 2 downloads per day." {
		t.Errorf("third download = %d %v", rec.Code, body)
	}

	count, err := env.app.DownloadRepository.CountByArtwork(context.Background(), artworkID)
	if err != nil || count != 1 {
		t.Errorf("download rows = %d, %v", count, err)
	}
	_, body = env.do(t, http.MethodGet, "/api/artworks/"+slug, nil, nil)
	if stats := body["artwork"].(map[string]any)["stats"].(map[string]any); stats["downloads"] != float64(1) {
		t.Errorf("stats = %v", stats)
	}

	rec, _ = env.admin(t, http.MethodDelete, "/api/admin/styles/"+env.style.ID.String(), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("delete style in use = %d", rec.Code)
	}
}

func TestTrack(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/api/track", map[string]any{"artwork_id": uuid.NewString(), "action": "like"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid action = %d", rec.Code)
	}

	rec, body := env.do(t, http.MethodPost, "/api/track", map[string]any{"artwork_id": uuid.NewString(), "action": "view"}, nil)
	if rec.Code != http.StatusOK || body["ok"] != true {
		t.Errorf("track = %d %v", rec.Code, body)
	}
}

func TestBasePromptSetting(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.admin(t, http.MethodGet, "/api/admin/settings/base-prompt", nil)
	if body["is_default"] != true || body["value"] != generation.DefaultBasePrompt {
		t.Errorf("default base prompt = %v", body)
	}

	rec, _ := env.admin(t, http.MethodPut, "/api/admin/settings", map[string]any{"key": models.SettingBasePrompt, "value": "Paint boldly."})
	if rec.Code != http.StatusOK {
		t.Fatalf("put = %d", rec.Code)
	}

	_, body = env.admin(t, http.MethodGet, "/api/admin/settings/base-prompt", nil)
	if body["is_default"] != false || body["value"] != "Paint boldly." {
		t.Errorf("saved base prompt = %v", body)
	}

	_, body = env.admin(t, http.MethodGet, "/api/admin/settings?key=missing", nil)
	if body["key"] != "missing" || body["value"] != nil {
		t.Errorf("missing key = %v", body)
	}
}

func TestCronGenerate(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/cron/generate", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("without secret = %d", rec.Code)
	}

	rec, body := env.do(t, http.MethodGet, "/api/cron/generate", nil, map[string]string{"Authorization": "Bearer " + cronSecret})
	if rec.Code != http.StatusOK || body["success"] != float64(2) || body["failed"] != float64(0) {
		t.Errorf("cron = %d %v", rec.Code, body)
	}

	_, body = env.admin(t, http.MethodGet, "/api/admin/artworks?status=review", nil)
	if got := len(body["artworks"].([]any)); got != 2 {
		t.Errorf("cron artworks in review = %d", got)
	}
}
