package promptfilter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Classification struct {
	SexualizeChild bool     `json:"sexualize_child"`
	Child          bool     `json:"child"`
	Nudity         bool     `json:"nudity"`
	Sexual         bool     `json:"sexual"`
	Violence       bool     `json:"violence"`
	Disturbing     bool     `json:"disturbing"`
	RequestedText  bool     `json:"requested_text"`
	Persons        []Person `json:"persons"`
}

type Person struct {
	Name       string `json:"name"`
	RealPerson bool   `json:"real_person"`
}

type Verdict struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

// Screener classifies custom prompt text with an OpenAI chat model before it
// reaches the image model.
type Screener struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewScreener(apiKey string) (*Screener, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is not set")
	}

	return &Screener{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT4oMini,
	}, nil
}

func (s *Screener) Screen(ctx context.Context, prompt string) (*Verdict, error) {
	classification, err := s.classify(ctx, prompt)
	if err != nil {
		return nil, err
	}

	verdict := Evaluate(classification, prompt)
	return &verdict, nil
}

func (s *Screener) classify(ctx context.Context, prompt string) (*Classification, error) {
	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf("Custom direction: %s", prompt)),
		}),
		ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONObjectParam{
				Type: openai.F(openai.ResponseFormatJSONObjectTypeJSONObject),
			},
		),
		Model:       openai.F(s.model),
		Temperature: openai.F(0.0),
	})
	if err != nil {
		return nil, err
	}

	if len(completion.Choices) == 0 || len(completion.Choices[0].Message.Content) == 0 {
		return nil, fmt.Errorf("could not classify prompt")
	}

	var classification Classification
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &classification); err != nil {
		return nil, fmt.Errorf("could not parse classification: %w", err)
	}

	return &classification, nil
}

// Evaluate turns a classification into a verdict. Requests for text in the
// image are allowed because the base prompt already forbids it.
func Evaluate(c *Classification, prompt string) Verdict {
	switch {
	case c.SexualizeChild || (c.Child && (c.Sexual || c.Nudity || mentionsNudity(prompt))):
		return Verdict{Reason: "contains sexual content involving a child"}
	case c.Child && (c.Violence || c.Disturbing):
		return Verdict{Reason: "contains violence or disturbing content involving a child"}
	case (c.Sexual || c.Nudity) && hasRealPerson(c.Persons):
		return Verdict{Reason: "contains sexual or nude content of a real person"}
	case c.Sexual:
		return Verdict{Reason: "contains sexual content"}
	case c.Violence:
		return Verdict{Reason: "contains extreme violence"}
	}

	return Verdict{Approved: true}
}

func hasRealPerson(persons []Person) bool {
	for _, person := range persons {
		if person.RealPerson {
			return true
		}
	}
	return false
}

func mentionsNudity(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, term := range []string{"naked", "nude", "nudity"} {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
