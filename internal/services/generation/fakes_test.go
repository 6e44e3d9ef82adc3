package generation

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/services/filestorage"
	"github.com/blart-ai/blart-server/internal/services/promptfilter"

	"github.com/google/uuid"
)

var fixedNow = time.UnixMilli(1700000000000).UTC()

// scriptedRand replays fixed draws and returns 0 once a script runs out.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func newStyle(name, slug string, sortOrder int) *models.Style {
	style := models.NewStyle(name, slug, "", "", sortOrder)
	return style
}

type fakeStyles struct {
	byID      map[string]*models.Style
	active    []models.Style
	listErr   error
	getCalls  int
	listCalls int
}

func newFakeStyles(styles ...*models.Style) *fakeStyles {
	f := &fakeStyles{byID: map[string]*models.Style{}}
	for _, s := range styles {
		f.byID[s.ID.String()] = s
		if s.IsActive {
			f.active = append(f.active, *s)
		}
	}
	return f
}

func (f *fakeStyles) GetByID(ctx context.Context, id string) (*models.Style, error) {
	f.getCalls++
	style, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return style, nil
}

func (f *fakeStyles) ListActive(ctx context.Context) ([]models.Style, error) {
	f.listCalls++
	return f.active, f.listErr
}

type fakeSettings struct {
	values map[string]string
	err    error
}

func (f *fakeSettings) GetValue(ctx context.Context, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	value, ok := f.values[key]
	return value, ok, nil
}

type fakeFetcher struct {
	requested [][]string
	images    []InlineImage
}

func (f *fakeFetcher) Fetch(ctx context.Context, urls []string) []InlineImage {
	f.requested = append(f.requested, urls)
	return f.images
}

type synthCall struct {
	prompt string
	images []InlineImage
}

type fakeSynth struct {
	mu      sync.Mutex
	calls   []synthCall
	results []error
	image   *Image
}

func (f *fakeSynth) Synthesize(ctx context.Context, prompt string, images []InlineImage) (*Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.calls)
	f.calls = append(f.calls, synthCall{prompt: prompt, images: images})
	if n < len(f.results) && f.results[n] != nil {
		return nil, f.results[n]
	}
	if f.image != nil {
		return f.image, nil
	}
	return &Image{MIMEType: "image/png", Data: []byte("png-bytes")}, nil
}

func (f *fakeSynth) Model() string {
	return "gemini-2.5-flash-image"
}

type fakeBlobs struct {
	taken   map[string]bool
	err     error
	uploads []filestorage.FileInfo
}

func (f *fakeBlobs) Upload(ctx context.Context, file filestorage.FileInfo) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.taken[file.Key] {
		return "", filestorage.ErrFileExists
	}
	if f.taken == nil {
		f.taken = map[string]bool{}
	}
	f.taken[file.Key] = true
	f.uploads = append(f.uploads, file)
	return "https://cdn.example.com/" + file.Key, nil
}

type fakeArtworks struct {
	err     error
	created []*models.Artwork
}

func (f *fakeArtworks) Create(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, artwork)
	return artwork, nil
}

type fakeEvents struct {
	events []*models.Event
}

func (f *fakeEvents) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	f.events = append(f.events, event)
	return event, nil
}

type fakeScreener struct {
	verdict *promptfilter.Verdict
	err     error
}

func (f *fakeScreener) Screen(ctx context.Context, prompt string) (*promptfilter.Verdict, error) {
	return f.verdict, f.err
}

type recordingSleeper struct {
	delays   []time.Duration
	cancelAt int
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	if r.cancelAt > 0 && len(r.delays) == r.cancelAt {
		return context.Canceled
	}
	return nil
}

var errBoom = errors.New("boom")

func mustUUID() string {
	return uuid.NewString()
}
