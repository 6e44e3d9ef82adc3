package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/blart-ai/blart-server/internal/config"
	"github.com/blart-ai/blart-server/internal/utils/imageutil"
)

type GCSFileStorage struct {
	client *storage.Client
	cfg    *config.GCSConfig
}

func NewGCSFileStorage(ctx context.Context, cfg *config.Config) (*GCSFileStorage, error) {
	if cfg.GCS == nil || cfg.GCS.Bucket == "" {
		return nil, fmt.Errorf("gcs config is not set")
	}

	var opts []option.ClientOption
	if cfg.GCS.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCS.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}

	return &GCSFileStorage{client: client, cfg: cfg.GCS}, nil
}

// Upload uses a DoesNotExist precondition, so the write fails with 412 when
// the object is already present.
func (u *GCSFileStorage) Upload(ctx context.Context, file FileInfo) (string, error) {
	obj := u.client.Bucket(u.cfg.Bucket).Object(file.Key)

	wc := obj.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	wc.ContentType = imageutil.DetectMIME(file.ContentType, file.Content)

	if _, err := wc.Write(file.Content); err != nil {
		wc.Close()
		return "", classifyGCSError(err)
	}
	if err := wc.Close(); err != nil {
		return "", classifyGCSError(err)
	}

	return u.PublicURL(file.Key), nil
}

func (u *GCSFileStorage) GetFile(ctx context.Context, key string) (*FileInfo, error) {
	rc, err := u.client.Bucket(u.cfg.Bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Key:         key,
		Content:     content,
		ContentType: imageutil.DetectMIME(rc.Attrs.ContentType, content),
	}, nil
}

func (u *GCSFileStorage) PublicURL(key string) string {
	if u.cfg.PublicUrl != "" {
		return strings.TrimSuffix(u.cfg.PublicUrl, "/") + "/" + key
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.cfg.Bucket, key)
}

func classifyGCSError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed {
		return ErrFileExists
	}
	return err
}
