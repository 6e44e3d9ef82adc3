package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Download struct {
	bun.BaseModel `bun:"table:downloads"`

	ID         uuid.UUID `bun:",type:uuid,pk"`
	ArtworkID  uuid.UUID `bun:",type:uuid,notnull"`
	Resolution string    `bun:",notnull"`
	IsPaid     bool      `bun:",notnull"`
	IPHash     string    `bun:",notnull"`
	UserAgent  string    `bun:",notnull"`
	CreatedAt  time.Time `bun:",notnull"`
}

func NewFreeDownload(artworkID uuid.UUID, ipHash, userAgent string) *Download {
	return &Download{
		ID:         uuid.Must(uuid.NewRandom()),
		ArtworkID:  artworkID,
		Resolution: "4k",
		IPHash:     ipHash,
		UserAgent:  userAgent,
		CreatedAt:  time.Now().UTC(),
	}
}
