package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

type fakeGenerator struct {
	resp     *genai.GenerateContentResponse
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func candidate(parts ...*genai.Part) *genai.Candidate {
	return &genai.Candidate{Content: &genai.Content{Role: genai.RoleModel, Parts: parts}}
}

func TestSynthesizeRequestShape(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{candidate(&genai.Part{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: []byte("jpg")}})},
	}}
	synth := NewSynthesizerWithGenerator(gen, "gemini-2.5-flash-image")

	img, err := synth.Synthesize(context.Background(), "a prompt", []InlineImage{
		{MIMEType: "image/png", Data: []byte("ref1")},
		{MIMEType: "image/jpeg", Data: []byte("ref2")},
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if img.MIMEType != "image/jpeg" || string(img.Data) != "jpg" {
		t.Errorf("image = %+v", img)
	}

	if gen.model != "gemini-2.5-flash-image" {
		t.Errorf("model = %q", gen.model)
	}
	if len(gen.contents) != 1 || gen.contents[0].Role != genai.RoleUser {
		t.Fatalf("contents = %+v", gen.contents)
	}
	parts := gen.contents[0].Parts
	if len(parts) != 3 || parts[0].Text != "a prompt" {
		t.Fatalf("parts = %+v", parts)
	}
	if parts[1].InlineData.MIMEType != "image/png" || string(parts[2].InlineData.Data) != "ref2" {
		t.Errorf("image parts out of order")
	}
	if strings.Join(gen.config.ResponseModalities, ",") != "TEXT,IMAGE" {
		t.Errorf("modalities = %v", gen.config.ResponseModalities)
	}
}

func TestSynthesizeOutcomes(t *testing.T) {
	long := strings.Repeat("ü", 250)

	tests := []struct {
		name  string
		resp  *genai.GenerateContentResponse
		err   error
		check func(t *testing.T, img *Image, err error)
	}{
		{
			name: "image after text in a later candidate",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				candidate(&genai.Part{Text: "thinking"}),
				candidate(&genai.Part{InlineData: &genai.Blob{Data: []byte("raw")}}),
			}},
			check: func(t *testing.T, img *Image, err error) {
				if err != nil || img.MIMEType != "image/png" {
					t.Errorf("got %+v, %v", img, err)
				}
			},
		},
		{
			name: "blocked prompt",
			resp: &genai.GenerateContentResponse{PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety}},
			check: func(t *testing.T, img *Image, err error) {
				var blocked *SynthesisBlockedError
				if !errors.As(err, &blocked) || blocked.Reason != "SAFETY" {
					t.Errorf("err = %v", err)
				}
			},
		},
		{
			name: "no candidates",
			resp: &genai.GenerateContentResponse{},
			check: func(t *testing.T, img *Image, err error) {
				if !errors.Is(err, ErrSynthesisEmpty) {
					t.Errorf("err = %v", err)
				}
			},
		},
		{
			name: "text only is truncated",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(&genai.Part{Text: long})}},
			check: func(t *testing.T, img *Image, err error) {
				var noImage *SynthesisNoImageError
				if !errors.As(err, &noImage) {
					t.Fatalf("err = %v", err)
				}
				if got := len([]rune(noImage.Explanation)); got != 200 {
					t.Errorf("explanation runes = %d", got)
				}
			},
		},
		{
			name: "empty parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate()}},
			check: func(t *testing.T, img *Image, err error) {
				var noImage *SynthesisNoImageError
				if !errors.As(err, &noImage) || noImage.Explanation != "unknown" {
					t.Errorf("err = %v", err)
				}
			},
		},
		{
			name: "api error",
			err:  genai.APIError{Code: 429, Message: "quota exhausted"},
			check: func(t *testing.T, img *Image, err error) {
				var transport *SynthesisTransportError
				if !errors.As(err, &transport) || transport.StatusCode != 429 {
					t.Fatalf("err = %v", err)
				}
				if err.Error() != "gemini API error: 429 - quota exhausted" {
					t.Errorf("message = %q", err.Error())
				}
			},
		},
		{
			name: "network error",
			err:  errBoom,
			check: func(t *testing.T, img *Image, err error) {
				var transport *SynthesisTransportError
				if !errors.As(err, &transport) || transport.StatusCode != 0 {
					t.Errorf("err = %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := NewSynthesizerWithGenerator(&fakeGenerator{resp: tt.resp, err: tt.err}, "m")
			img, err := synth.Synthesize(context.Background(), "p", nil)
			tt.check(t, img, err)
		})
	}
}

func TestNewGeminiSynthesizerRequiresKey(t *testing.T) {
	if _, err := NewGeminiSynthesizer(context.Background(), "", "m"); !errors.Is(err, ErrConfigurationMissing) {
		t.Errorf("err = %v, want ErrConfigurationMissing", err)
	}
}
