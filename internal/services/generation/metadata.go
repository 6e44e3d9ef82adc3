package generation

import (
	"math/rand/v2"
	"slices"
)

// Rand is the random source the pipeline draws from.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

type Metadata struct {
	Title       string
	Description string
	Tags        []string
	Colors      []string
}

func pick[T any](rng Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

// SynthesizeMetadata derives the title, description, tags and palette for an
// artwork of the given stored style slug.
func SynthesizeMetadata(rng Rand, styleSlug string) Metadata {
	return Metadata{
		Title:       generateTitle(rng, styleSlug),
		Description: pick(rng, resolvePool(styleDescriptions, styleSlug)),
		Tags:        generateTags(rng, styleSlug),
		Colors:      slices.Clone(pick(rng, resolvePool(stylePalettes, styleSlug))),
	}
}

func generateTitle(rng Rand, styleSlug string) string {
	theme := pick(rng, resolvePool(titleThemes, styleSlug))
	if rng.Float64() > 0.4 {
		return theme + " " + pick(rng, titleSuffixes)
	}
	return theme
}

// generateTags appends two or three distinct style tags to the base set.
func generateTags(rng Rand, styleSlug string) []string {
	pool := slices.Clone(resolvePool(styleTags, styleSlug))
	k := 2 + rng.IntN(2)

	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	tags := make([]string, 0, len(baseTags)+k)
	tags = append(tags, baseTags...)
	return append(tags, pool[:k]...)
}
