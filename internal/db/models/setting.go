package models

import (
	"time"

	"github.com/uptrace/bun"
)

const SettingBasePrompt = "base_prompt"

type Setting struct {
	bun.BaseModel `bun:"table:settings"`

	Key       string    `bun:"key,pk" json:"key"`
	Value     string    `bun:",notnull" json:"value"`
	UpdatedAt time.Time `bun:",notnull" json:"updated_at"`
}
