package slugutil

import (
	"regexp"
	"strconv"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims leading and trailing hyphens.
func Slugify(s string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

// WithTimestamp appends the base36 encoding of millis to the slug of title.
func WithTimestamp(title string, millis int64) string {
	return Slugify(title) + "-" + strconv.FormatInt(millis, 36)
}
