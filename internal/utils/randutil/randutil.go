package randutil

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

const APIKeyPrefix = "blart_"

func RandomString(length int) (string, error) {
	key := make([]byte, length)

	if _, err := rand.Read(key); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(key), nil
}

// NewAPIKey returns a fresh admin API key carrying the blart_ prefix.
func NewAPIKey() (string, error) {
	key, err := RandomString(32)
	if err != nil {
		return "", err
	}

	return APIKeyPrefix + key, nil
}

func MaskString(value string, visibleStart, visibleEnd int) string {
	if len(value) <= visibleStart+visibleEnd {
		return value
	}

	hidden := len(value) - (visibleStart + visibleEnd)
	return value[:visibleStart] + strings.Repeat("*", hidden) + value[len(value)-visibleEnd:]
}
