package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/blart-ai/blart-server/internal/config"
	"github.com/blart-ai/blart-server/internal/utils/imageutil"
	"github.com/blart-ai/blart-server/internal/utils/pathutil"
)

// LocalRoutePrefix is where the HTTP server exposes the assets directory.
const LocalRoutePrefix = "/files"

type LocalFileStorage struct {
	assetsDir string
	baseURL   string
}

func NewLocalFileStorage(cfg *config.Config) (*LocalFileStorage, error) {
	if cfg.AssetsDir == "" {
		return nil, fmt.Errorf("assets dir is not set")
	}

	return &LocalFileStorage{
		assetsDir: cfg.AssetsDir,
		baseURL:   fmt.Sprintf("http://%s:%d%s", cfg.Host, cfg.Port, LocalRoutePrefix),
	}, nil
}

func (u *LocalFileStorage) Upload(ctx context.Context, file FileInfo) (string, error) {
	dest, err := pathutil.SafeJoin(u.assetsDir, file.Key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return "", err
	}

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", ErrFileExists
	}
	if err != nil {
		return "", err
	}

	if _, err := f.Write(file.Content); err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("failed to save content to file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return u.PublicURL(file.Key), nil
}

func (u *LocalFileStorage) GetFile(ctx context.Context, key string) (*FileInfo, error) {
	path, err := pathutil.SafeJoin(u.assetsDir, key)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Key:         key,
		Content:     content,
		ContentType: imageutil.DetectMIME("", content),
	}, nil
}

func (u *LocalFileStorage) PublicURL(key string) string {
	return u.baseURL + "/" + strings.TrimPrefix(key, "/")
}
