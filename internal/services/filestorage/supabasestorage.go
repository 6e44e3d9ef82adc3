package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blart-ai/blart-server/internal/config"
	"github.com/blart-ai/blart-server/internal/utils/imageutil"
)

// SupabaseFileStorage talks to the Supabase Storage REST API directly.
type SupabaseFileStorage struct {
	baseURL    string
	serviceKey string
	bucket     string
	client     *http.Client
}

func NewSupabaseFileStorage(cfg *config.Config) (*SupabaseFileStorage, error) {
	if cfg.Supabase == nil || cfg.Supabase.URL == "" || cfg.Supabase.ServiceKey == "" {
		return nil, fmt.Errorf("supabase config is not set")
	}

	bucket := cfg.Supabase.Bucket
	if bucket == "" {
		bucket = "artworks"
	}

	return &SupabaseFileStorage{
		baseURL:    strings.TrimSuffix(cfg.Supabase.URL, "/"),
		serviceKey: cfg.Supabase.ServiceKey,
		bucket:     bucket,
		client:     &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (u *SupabaseFileStorage) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", u.baseURL, u.bucket, key)
}

func (u *SupabaseFileStorage) Upload(ctx context.Context, file FileInfo) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.objectURL(file.Key), bytes.NewReader(file.Content))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+u.serviceKey)
	req.Header.Set("apikey", u.serviceKey)
	req.Header.Set("Content-Type", imageutil.DetectMIME(file.ContentType, file.Content))
	req.Header.Set("x-upsert", "false")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return u.PublicURL(file.Key), nil
	}

	body, _ := io.ReadAll(resp.Body)
	if isSupabaseDuplicate(resp.StatusCode, body) {
		return "", ErrFileExists
	}
	return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
}

func (u *SupabaseFileStorage) GetFile(ctx context.Context, key string) (*FileInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.objectURL(key), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+u.serviceKey)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d: %s", resp.StatusCode, string(content))
	}

	return &FileInfo{
		Key:         key,
		Content:     content,
		ContentType: imageutil.DetectMIME(resp.Header.Get("Content-Type"), content),
	}, nil
}

func (u *SupabaseFileStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", u.baseURL, u.bucket, key)
}

// Storage reports duplicates as 409, or as 400 with a "Duplicate" body on
// older deployments.
func isSupabaseDuplicate(status int, body []byte) bool {
	if status == http.StatusConflict {
		return true
	}
	text := strings.ToLower(string(body))
	return status == http.StatusBadRequest && (strings.Contains(text, "duplicate") || strings.Contains(text, "already exists"))
}
