package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Style struct {
	bun.BaseModel `bun:"table:styles,alias:s"`

	ID              uuid.UUID `bun:",type:uuid,pk" json:"id"`
	Name            string    `bun:",notnull" json:"name"`
	Slug            string    `bun:",notnull,unique" json:"slug"`
	Description     string    `bun:",notnull" json:"description"`
	PromptPrefix    string    `bun:",notnull" json:"prompt_prefix"`
	ReferenceImages []string  `bun:",type:jsonb,notnull" json:"reference_images"`
	IsActive        bool      `bun:",notnull" json:"is_active"`
	SortOrder       int       `bun:",notnull" json:"sort_order"`
	CreatedAt       time.Time `bun:",notnull" json:"created_at"`
	UpdatedAt       time.Time `bun:",notnull" json:"updated_at"`
}

// NewStyle returns an active style with an empty moodboard. The slug is fixed
// here and never follows later renames.
func NewStyle(name, slug, promptPrefix, description string, sortOrder int) *Style {
	now := time.Now().UTC()
	return &Style{
		ID:              uuid.Must(uuid.NewRandom()),
		Name:            name,
		Slug:            slug,
		Description:     description,
		PromptPrefix:    promptPrefix,
		ReferenceImages: []string{},
		IsActive:        true,
		SortOrder:       sortOrder,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
