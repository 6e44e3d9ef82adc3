package generation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/blart-ai/blart-server/internal/services/filestorage"
	"github.com/blart-ai/blart-server/internal/utils/imageutil"

	"github.com/gammazero/workerpool"
	"go.uber.org/zap"
)

const maxReferenceBytes = 20 << 20

// HTTPReferenceFetcher downloads moodboard images on a shared worker pool so
// concurrent generations cannot open unbounded connections.
type HTTPReferenceFetcher struct {
	wp      *workerpool.WorkerPool
	client  *http.Client
	maxEdge int
	logger  *zap.Logger

	// store reads moodboard URLs this server uploaded itself.
	store filestorage.FileStorage
}

func NewHTTPReferenceFetcher(maxWorkers int, timeout time.Duration, maxEdge int, store filestorage.FileStorage, logger *zap.Logger) *HTTPReferenceFetcher {
	return &HTTPReferenceFetcher{
		wp:      workerpool.New(maxWorkers),
		client:  &http.Client{Timeout: timeout},
		maxEdge: maxEdge,
		logger:  logger,
		store:   store,
	}
}

func (f *HTTPReferenceFetcher) Stop() {
	f.wp.StopWait()
}

func (f *HTTPReferenceFetcher) Fetch(ctx context.Context, urls []string) []InlineImage {
	results := make([]*InlineImage, len(urls))

	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		f.wp.Submit(func() {
			defer wg.Done()

			image, err := f.fetchOne(ctx, url)
			if err != nil {
				f.logger.Warn("skipping reference image", zap.String("url", url), zap.Error(err))
				return
			}
			results[i] = image
		})
	}
	wg.Wait()

	images := make([]InlineImage, 0, len(urls))
	for _, image := range results {
		if image != nil {
			images = append(images, *image)
		}
	}
	return images
}

func (f *HTTPReferenceFetcher) fetchOne(ctx context.Context, url string) (*InlineImage, error) {
	data, contentType, err := f.read(ctx, url)
	if err != nil {
		return nil, err
	}

	mimeType := imageutil.DetectMIME(contentType, data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("not an image: %s", mimeType)
	}

	prepared, preparedType, err := imageutil.PrepareForModel(data, mimeType, f.maxEdge)
	if err != nil {
		f.logger.Debug("sending reference image unmodified", zap.String("url", url), zap.Error(err))
		return &InlineImage{MIMEType: mimeType, Data: data}, nil
	}

	return &InlineImage{MIMEType: preparedType, Data: prepared}, nil
}

func (f *HTTPReferenceFetcher) read(ctx context.Context, url string) ([]byte, string, error) {
	if f.store != nil {
		if key, ok := filestorage.KeyForURL(f.store, url); ok {
			file, err := f.store.GetFile(ctx, key)
			if err == nil {
				return file.Content, file.ContentType, nil
			}
			f.logger.Debug("stored reference unreadable, fetching over http", zap.String("key", key), zap.Error(err))
		}
	}

	return f.download(ctx, url)
}

func (f *HTTPReferenceFetcher) download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReferenceBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxReferenceBytes {
		return nil, "", fmt.Errorf("reference image exceeds %d bytes", maxReferenceBytes)
	}

	return data, resp.Header.Get("Content-Type"), nil
}
