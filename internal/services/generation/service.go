package generation

import (
	"context"
	"time"

	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/services/promptfilter"
	"github.com/blart-ai/blart-server/internal/utils/imageutil"

	"go.uber.org/zap"
)

const (
	DefaultBatchDelay   = 2000 * time.Millisecond
	DefaultMaxBatchSize = 50
)

type PromptScreener interface {
	Screen(ctx context.Context, prompt string) (*promptfilter.Verdict, error)
}

type EventRecorder interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Options struct {
	Orientation       models.Orientation `json:"orientation,omitempty"`
	CustomPrompt      string             `json:"custom_prompt,omitempty"`
	ReferenceNotes    string             `json:"reference_notes,omitempty"`
	BasePrompt        string             `json:"base_prompt,omitempty"`
	InspirationImages []string           `json:"inspiration_images,omitempty"`
	AutoPublish       bool               `json:"auto_publish,omitempty"`
}

type Result struct {
	Success      bool   `json:"success"`
	ArtworkID    string `json:"artwork_id,omitempty"`
	Title        string `json:"title,omitempty"`
	Slug         string `json:"slug,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	ImageDataURL string `json:"image_data_url,omitempty"`
	Error        string `json:"error,omitempty"`
}

type BatchOptions struct {
	StyleID     string
	Orientation models.Orientation
	AutoPublish bool
	BasePrompt  string

	// OnItem is called after every attempt with its zero-based index.
	OnItem func(index int, result Result)
}

type Summary struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

type BatchResult struct {
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
	Error   string   `json:"error,omitempty"`
}

type Dependencies struct {
	Styles      StyleStore
	Settings    SettingStore
	Artworks    ArtworkStore
	Blobs       BlobStore
	Events      EventRecorder
	Fetcher     ReferenceFetcher
	Synthesizer Synthesizer
	Screener    PromptScreener
}

type Service struct {
	deps         Dependencies
	rng          Rand
	sleep        Sleeper
	now          func() time.Time
	batchDelay   time.Duration
	maxBatchSize int
	logger       *zap.Logger

	resolver *Resolver
	sink     *Sink
}

type Option func(*Service)

func WithRand(rng Rand) Option {
	return func(s *Service) { s.rng = rng }
}

func WithSleeper(sleep Sleeper) Option {
	return func(s *Service) { s.sleep = sleep }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithBatchDelay(d time.Duration) Option {
	return func(s *Service) { s.batchDelay = d }
}

func WithMaxBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(deps Dependencies, opts ...Option) *Service {
	s := &Service{
		deps:         deps,
		rng:          globalRand{},
		sleep:        sleepContext,
		now:          time.Now,
		batchDelay:   DefaultBatchDelay,
		maxBatchSize: DefaultMaxBatchSize,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.resolver = NewResolver(deps.Styles, deps.Settings, deps.Fetcher, s.rng, s.logger)
	s.sink = NewSink(deps.Blobs, deps.Artworks, s.now)
	return s
}

func (s *Service) Resolver() *Resolver {
	return s.resolver
}

func (s *Service) ListActiveStyles(ctx context.Context) ([]models.Style, error) {
	return s.deps.Styles.ListActive(ctx)
}

func (s *Service) randomOrientation() models.Orientation {
	return pick(s.rng, models.Orientations)
}

// screen rejects custom prompts the screener flags. Screening failures are
// logged and the prompt is let through.
func (s *Service) screen(ctx context.Context, prompt string) error {
	if s.deps.Screener == nil || prompt == "" {
		return nil
	}

	verdict, err := s.deps.Screener.Screen(ctx, prompt)
	if err != nil {
		s.logger.Warn("prompt screening failed, continuing without it", zap.Error(err))
		return nil
	}
	if !verdict.Approved {
		return &PromptRejectedError{Reason: verdict.Reason}
	}
	return nil
}

func (s *Service) synthesize(ctx context.Context, styleID string, orientation models.Orientation, opts Options) (*ResolvedRequest, *Image, error) {
	if s.deps.Synthesizer == nil {
		return nil, nil, ErrConfigurationMissing
	}
	if err := s.screen(ctx, opts.CustomPrompt); err != nil {
		return nil, nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, styleID, orientation, opts)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug("resolved generation prompt",
		zap.String("style", resolved.Style.Slug),
		zap.String("orientation", string(orientation)),
		zap.Int("images", len(resolved.Images)),
		zap.String("prompt", resolved.Prompt),
	)

	image, err := s.deps.Synthesizer.Synthesize(ctx, resolved.Prompt, resolved.Images)
	if err != nil {
		return resolved, nil, err
	}

	return resolved, image, nil
}

// Generate runs the full pipeline for one artwork. Failures are reported in
// the Result, never returned.
func (s *Service) Generate(ctx context.Context, styleID string, opts Options) Result {
	orientation := opts.Orientation
	if !orientation.Valid() {
		orientation = s.randomOrientation()
	}

	resolved, image, err := s.synthesize(ctx, styleID, orientation, opts)
	if err != nil {
		return s.fail(ctx, styleID, orientation, err)
	}

	metadata := SynthesizeMetadata(s.rng, resolved.Style.Slug)
	artwork, err := s.sink.Persist(ctx, PersistRequest{
		Style:       resolved.Style,
		Image:       image,
		Metadata:    metadata,
		Orientation: orientation,
		Prompt:      resolved.Prompt,
		Model:       s.deps.Synthesizer.Model(),
		AutoPublish: opts.AutoPublish,
	})
	if err != nil {
		return s.fail(ctx, styleID, orientation, err)
	}

	s.logger.Info("artwork generated",
		zap.String("artwork_id", artwork.ID.String()),
		zap.String("slug", artwork.Slug),
		zap.String("style", resolved.Style.Slug),
		zap.String("status", string(artwork.Status)),
	)
	s.record(ctx, models.EventGenerationSucceeded, styleID, artwork.ID.String(), map[string]any{
		"title":       artwork.Title,
		"orientation": string(orientation),
		"model":       artwork.GenerationModel,
		"image_url":   artwork.ImageURL,
		"prompt":      artwork.GenerationPrompt,
	})

	return Result{
		Success:   true,
		ArtworkID: artwork.ID.String(),
		Title:     artwork.Title,
		Slug:      artwork.Slug,
		ImageURL:  artwork.ImageURL,
	}
}

// Preview resolves and synthesizes without touching blob or artwork storage.
func (s *Service) Preview(ctx context.Context, styleID string, opts Options) Result {
	orientation := opts.Orientation
	if !orientation.Valid() {
		orientation = models.OrientationSquare
	}

	_, image, err := s.synthesize(ctx, styleID, orientation, opts)
	if err != nil {
		s.logger.Warn("preview failed", zap.String("style_id", styleID), zap.Error(err))
		return Result{Error: err.Error()}
	}

	return Result{
		Success:      true,
		ImageDataURL: imageutil.DataURL(image.MIMEType, image.Data),
	}
}

// BatchGenerate runs Generate count times, one after another, pausing
// between items. Cancelling ctx stops the batch at the next pause.
func (s *Service) BatchGenerate(ctx context.Context, count int, opts BatchOptions) BatchResult {
	count = min(max(count, 1), s.maxBatchSize)
	batch := BatchResult{Results: []Result{}}

	var styleIDs []string
	if opts.StyleID != "" {
		styleIDs = []string{opts.StyleID}
	} else {
		styles, err := s.deps.Styles.ListActive(ctx)
		if err != nil {
			s.logger.Error("failed to load active styles", zap.Error(err))
			batch.Error = err.Error()
			return batch
		}
		for _, style := range styles {
			styleIDs = append(styleIDs, style.ID.String())
		}
	}

	if len(styleIDs) == 0 {
		s.logger.Warn("no active styles, skipping batch")
		return batch
	}

	for i := 0; i < count; i++ {
		orientation := opts.Orientation
		if !orientation.Valid() {
			orientation = s.randomOrientation()
		}

		result := s.Generate(ctx, styleIDs[i%len(styleIDs)], Options{
			Orientation: orientation,
			AutoPublish: opts.AutoPublish,
			BasePrompt:  opts.BasePrompt,
		})

		batch.Results = append(batch.Results, result)
		if result.Success {
			batch.Summary.Success++
		} else {
			batch.Summary.Failed++
		}
		if opts.OnItem != nil {
			opts.OnItem(i, result)
		}

		if i < count-1 {
			if err := s.sleep(ctx, s.batchDelay); err != nil {
				s.logger.Warn("batch cancelled", zap.Int("completed", i+1), zap.Int("requested", count), zap.Error(err))
				batch.Error = err.Error()
				break
			}
		}
	}

	s.logger.Info("batch finished",
		zap.Int("success", batch.Summary.Success),
		zap.Int("failed", batch.Summary.Failed),
	)
	s.record(ctx, models.EventBatchCompleted, opts.StyleID, "", batch.Summary)

	return batch
}

func (s *Service) fail(ctx context.Context, styleID string, orientation models.Orientation, err error) Result {
	s.logger.Warn("artwork generation failed", zap.String("style_id", styleID), zap.Error(err))
	s.record(ctx, models.EventGenerationFailed, styleID, "", map[string]any{
		"orientation": string(orientation),
		"error":       err.Error(),
	})

	return Result{Error: err.Error()}
}

func (s *Service) record(ctx context.Context, eventType models.EventType, styleID, artworkID string, data any) {
	if s.deps.Events == nil {
		return
	}

	event, err := models.NewEvent(eventType, styleID, artworkID, data)
	if err != nil {
		s.logger.Warn("failed to encode event", zap.String("type", string(eventType)), zap.Error(err))
		return
	}
	if _, err := s.deps.Events.Create(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("failed to record event", zap.String("type", string(eventType)), zap.Error(err))
	}
}
