package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/askedagain/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// ErrGeneratorUnavailable is returned when no model is configured.
var ErrGeneratorUnavailable = errors.New("answer generator is not configured")

// AnswerGenerator drafts a reference answer for an exam question.
type AnswerGenerator interface {
	Generate(ctx context.Context, questionText string) (content string, modelName string, err error)
}

type geminiAnswerGenerator struct {
	client    *genai.GenerativeModel
	modelName string
}

// NewGeminiAnswerGenerator returns a generator that always fails with
// ErrGeneratorUnavailable when GEMINI_API_KEY is empty.
func NewGeminiAnswerGenerator(cfg *config.Config) (AnswerGenerator, error) {
	modelName := cfg.GeminiModel
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. AI answers will be unavailable.")
		return &geminiAnswerGenerator{modelName: modelName}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	return &geminiAnswerGenerator{client: model, modelName: modelName}, nil
}

func (g *geminiAnswerGenerator) Generate(ctx context.Context, questionText string) (string, string, error) {
	if g.client == nil {
		return "", "", ErrGeneratorUnavailable
	}

	resp, err := g.client.GenerateContent(ctx, genai.Text(buildAnswerPrompt(questionText)))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API call failed")
		return "", "", fmt.Errorf("gemini API call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", "", errors.New("no content received from Gemini")
	}

	var answer strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			answer.WriteString(string(txt))
		}
	}
	content := strings.TrimSpace(answer.String())
	if content == "" {
		return "", "", errors.New("empty answer received from Gemini")
	}
	return content, g.modelName, nil
}

func buildAnswerPrompt(questionText string) string {
	var b strings.Builder
	b.WriteString("You are a university teaching assistant helping students prepare for exams.\n")
	b.WriteString("Answer the following exam question accurately and concisely.\n")
	b.WriteString("Start with a one-paragraph answer, then list the key points an examiner would expect.\n")
	b.WriteString("If the question is ambiguous, state the interpretation you used.\n\n")
	b.WriteString("Question:\n")
	b.WriteString(questionText)
	b.WriteString("\n")
	return b.String()
}
