package filestorage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blart-ai/blart-server/internal/config"
)

// ErrFileExists is returned by Upload when an object already occupies the
// key. Stores never overwrite.
var ErrFileExists = errors.New("file already exists")

type FileInfo struct {
	Key         string
	Content     []byte
	ContentType string
}

type FileStorage interface {
	Upload(ctx context.Context, file FileInfo) (string, error)
	GetFile(ctx context.Context, key string) (*FileInfo, error)
	PublicURL(key string) string
}

func NewFileInfo(key string, content []byte, contentType string) FileInfo {
	return FileInfo{
		Key:         key,
		Content:     content,
		ContentType: contentType,
	}
}

func NewFileStorage(ctx context.Context, cfg *config.Config) (FileStorage, error) {
	switch cfg.FilesystemType {
	case config.FilesystemLocal, "":
		return NewLocalFileStorage(cfg)
	case config.FilesystemS3:
		return NewS3FileStorage(ctx, cfg)
	case config.FilesystemGCS:
		return NewGCSFileStorage(ctx, cfg)
	case config.FilesystemSupabase:
		return NewSupabaseFileStorage(cfg)
	}

	return nil, fmt.Errorf("invalid filesystem type %s", cfg.FilesystemType)
}

// KeyForURL maps a URL handed out by storage back to its object key. It
// reports false for URLs that live anywhere else.
func KeyForURL(storage FileStorage, url string) (string, bool) {
	prefix := storage.PublicURL("")
	if prefix == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}

	key := strings.TrimPrefix(url, prefix)
	return key, key != ""
}
