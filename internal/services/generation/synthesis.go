package generation

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

const noImageExplanationLimit = 200

// ContentGenerator is the slice of the genai models API the synthesizer uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Image struct {
	MIMEType string
	Data     []byte
}

type Synthesizer interface {
	Synthesize(ctx context.Context, prompt string, images []InlineImage) (*Image, error)
	Model() string
}

type GeminiSynthesizer struct {
	models ContentGenerator
	model  string
}

func NewGeminiSynthesizer(ctx context.Context, apiKey, model string) (*GeminiSynthesizer, error) {
	if apiKey == "" {
		return nil, ErrConfigurationMissing
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return NewSynthesizerWithGenerator(client.Models, model), nil
}

func NewSynthesizerWithGenerator(generator ContentGenerator, model string) *GeminiSynthesizer {
	return &GeminiSynthesizer{models: generator, model: model}
}

func (s *GeminiSynthesizer) Model() string {
	return s.model
}

func (s *GeminiSynthesizer) Synthesize(ctx context.Context, prompt string, images []InlineImage) (*Image, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, image := range images {
		parts = append(parts, genai.NewPartFromBytes(image.Data, image.MIMEType))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := s.models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return nil, transportError(err)
	}

	return extractImage(resp)
}

func transportError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &SynthesisTransportError{StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	return &SynthesisTransportError{Body: err.Error()}
}

// extractImage returns the first inline image across all candidates, or the
// classified reason there is none.
func extractImage(resp *genai.GenerateContentResponse) (*Image, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, &SynthesisBlockedError{Reason: string(resp.PromptFeedback.BlockReason)}
		}
		return nil, ErrSynthesisEmpty
	}

	explanation := ""
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "image/png"
				}
				return &Image{MIMEType: mimeType, Data: part.InlineData.Data}, nil
			}
			if explanation == "" && part.Text != "" {
				explanation = part.Text
			}
		}
	}

	if explanation == "" {
		explanation = "unknown"
	}
	return nil, &SynthesisNoImageError{Explanation: truncateRunes(explanation, noImageExplanationLimit)}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
