package generation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/utils/imageutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultBasePrompt = "Generate an original fine art image. Fine art quality, suitable for large format printing. High resolution, rich detail, museum-worthy. No text, watermarks, signatures, or borders."

const referenceInstruction = "Use the provided reference images only as style and mood inspiration. Create a new, original composition inspired by their aesthetic qualities. Do not copy them."

const (
	MaxMoodboardImages   = 3
	MaxInspirationImages = 3
)

var orientationGuides = map[models.Orientation]string{
	models.OrientationPortrait:  "vertical composition, taller than wide, portrait orientation, aspect ratio 2:3",
	models.OrientationLandscape: "horizontal composition, wider than tall, landscape orientation, aspect ratio 3:2",
	models.OrientationSquare:    "square composition, equal width and height, aspect ratio 1:1",
}

var enhancerKeyStrip = regexp.MustCompile(`[^a-z-]`)

type StyleStore interface {
	GetByID(ctx context.Context, id string) (*models.Style, error)
	ListActive(ctx context.Context) ([]models.Style, error)
}

type SettingStore interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
}

type InlineImage struct {
	MIMEType string
	Data     []byte
}

// ReferenceFetcher downloads moodboard images. Failed downloads are left out
// of the result; order follows urls.
type ReferenceFetcher interface {
	Fetch(ctx context.Context, urls []string) []InlineImage
}

type ResolvedRequest struct {
	Style       *models.Style
	Prompt      string
	Images      []InlineImage
	Orientation models.Orientation
}

type Resolver struct {
	styles   StyleStore
	settings SettingStore
	fetcher  ReferenceFetcher
	rng      Rand
	logger   *zap.Logger
}

func NewResolver(styles StyleStore, settings SettingStore, fetcher ReferenceFetcher, rng Rand, logger *zap.Logger) *Resolver {
	return &Resolver{styles: styles, settings: settings, fetcher: fetcher, rng: rng, logger: logger}
}

func (r *Resolver) loadStyle(ctx context.Context, styleID string) (*models.Style, error) {
	if _, err := uuid.Parse(styleID); err != nil {
		return nil, &StyleNotFoundError{ID: styleID}
	}

	style, err := r.styles.GetByID(ctx, styleID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && style == nil) {
		return nil, &StyleNotFoundError{ID: styleID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load style: %w", err)
	}

	return style, nil
}

// BasePrompt returns the override when set, then the persisted setting, then
// DefaultBasePrompt. A failed settings read falls through to the default.
func (r *Resolver) BasePrompt(ctx context.Context, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}

	if r.settings != nil {
		value, found, err := r.settings.GetValue(ctx, models.SettingBasePrompt)
		if err != nil {
			r.logger.Warn("failed to read base prompt setting, using default", zap.Error(err))
		} else if found && strings.TrimSpace(value) != "" {
			return value
		}
	}

	return DefaultBasePrompt
}

func (r *Resolver) Resolve(ctx context.Context, styleID string, orientation models.Orientation, opts Options) (*ResolvedRequest, error) {
	style, err := r.loadStyle(ctx, styleID)
	if err != nil {
		return nil, err
	}

	prefix := style.PromptPrefix
	if strings.TrimSpace(prefix) == "" {
		prefix = fmt.Sprintf("Create a %s artwork", strings.ToLower(style.Name))
	}

	enhancer := pick(r.rng, resolvePool(styleEnhancers, EnhancerKey(style.Name)))

	parts := []string{
		r.BasePrompt(ctx, opts.BasePrompt),
		prefix,
		enhancer,
		opts.CustomPrompt,
		orientationGuides[orientation],
		opts.ReferenceNotes,
	}
	if len(style.ReferenceImages) > 0 || len(opts.InspirationImages) > 0 {
		parts = append(parts, referenceInstruction)
	}

	return &ResolvedRequest{
		Style:       style,
		Prompt:      joinNonEmpty(parts),
		Images:      r.collectImages(ctx, style.ReferenceImages, opts.InspirationImages),
		Orientation: orientation,
	}, nil
}

func (r *Resolver) collectImages(ctx context.Context, moodboard []string, inspiration []string) []InlineImage {
	var images []InlineImage

	if len(moodboard) > MaxMoodboardImages {
		moodboard = moodboard[:MaxMoodboardImages]
	}
	if len(moodboard) > 0 && r.fetcher != nil {
		images = append(images, r.fetcher.Fetch(ctx, moodboard)...)
	}

	if len(inspiration) > MaxInspirationImages {
		inspiration = inspiration[:MaxInspirationImages]
	}
	for i, dataURL := range inspiration {
		mimeType, data, err := imageutil.ParseDataURL(dataURL)
		if err != nil {
			r.logger.Debug("skipping unparseable inspiration image", zap.Int("index", i), zap.Error(err))
			continue
		}
		images = append(images, InlineImage{MIMEType: mimeType, Data: data})
	}

	return images
}

// EnhancerKey lowercases a style's display name and drops everything outside
// [a-z-]. It is derived independently of the stored slug.
func EnhancerKey(name string) string {
	return enhancerKeyStrip.ReplaceAllString(strings.ToLower(name), "")
}

func joinNonEmpty(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "\n")
}
