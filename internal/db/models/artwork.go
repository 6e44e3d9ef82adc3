package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ArtworkStatus string

const (
	ArtworkStatusDraft     ArtworkStatus = "draft"
	ArtworkStatusReview    ArtworkStatus = "review"
	ArtworkStatusPublished ArtworkStatus = "published"
	ArtworkStatusRejected  ArtworkStatus = "rejected"
	ArtworkStatusArchived  ArtworkStatus = "archived"
)

func (s ArtworkStatus) Valid() bool {
	switch s {
	case ArtworkStatusDraft, ArtworkStatusReview, ArtworkStatusPublished, ArtworkStatusRejected, ArtworkStatusArchived:
		return true
	}
	return false
}

type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
	OrientationSquare    Orientation = "square"
)

var Orientations = []Orientation{OrientationPortrait, OrientationLandscape, OrientationSquare}

func (o Orientation) Valid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape, OrientationSquare:
		return true
	}
	return false
}

// Dimensions returns the nominal print size in pixels recorded for artworks
// of this orientation. It is not measured from the generated bytes.
func (o Orientation) Dimensions() (width, height int) {
	switch o {
	case OrientationPortrait:
		return 2560, 3840
	case OrientationLandscape:
		return 3840, 2560
	default:
		return 3840, 3840
	}
}

type Artwork struct {
	bun.BaseModel `bun:"table:artworks,alias:a"`

	ID               uuid.UUID     `bun:",type:uuid,pk" json:"id"`
	Title            string        `bun:",notnull" json:"title"`
	Slug             string        `bun:",notnull,unique" json:"slug"`
	Description      string        `bun:",notnull" json:"description"`
	ImageURL         string        `bun:"image_url,notnull" json:"image_url"`
	Image4KURL       string        `bun:"image_4k_url,notnull" json:"image_4k_url"`
	ThumbnailURL     string        `bun:"thumbnail_url,notnull" json:"thumbnail_url"`
	StyleID          uuid.UUID     `bun:",type:uuid,notnull" json:"style_id"`
	Style            *Style        `bun:"rel:belongs-to,join:style_id=id" json:"style,omitempty"`
	Tags             []string      `bun:",type:jsonb,notnull" json:"tags"`
	Colors           []string      `bun:",type:jsonb,notnull" json:"colors"`
	Orientation      Orientation   `bun:",notnull" json:"orientation"`
	WidthPx          int           `bun:",notnull" json:"width_px"`
	HeightPx         int           `bun:",notnull" json:"height_px"`
	Status           ArtworkStatus `bun:",notnull" json:"status"`
	IsFeatured       bool          `bun:",notnull" json:"is_featured"`
	GenerationPrompt string        `bun:",notnull" json:"generation_prompt"`
	GenerationModel  string        `bun:",notnull" json:"generation_model"`
	ViewCount        int           `bun:",notnull" json:"view_count"`
	DownloadCount    int           `bun:",notnull" json:"download_count"`
	OrderCount       int           `bun:",notnull" json:"order_count"`
	PublishedAt      bun.NullTime  `bun:",nullzero" json:"published_at"`
	CreatedAt        time.Time     `bun:",notnull" json:"created_at"`
	UpdatedAt        time.Time     `bun:",notnull" json:"updated_at"`
}

// SetStatus moves the artwork to status and stamps published_at on the
// transition into published. Leaving published keeps the original stamp.
func (a *Artwork) SetStatus(status ArtworkStatus, at time.Time) {
	if status == ArtworkStatusPublished && a.Status != ArtworkStatusPublished {
		a.PublishedAt = bun.NullTime{Time: at}
	}
	a.Status = status
	a.UpdatedAt = at
}
