package verify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/veritok/veritok/internal/model"
)

// OpenAIReasoner implements Researcher, Classifier and DomainRater
// against the OpenAI chat API. Research uses a web-search-enabled
// model; classification and domain rating use a cheaper one.
type OpenAIReasoner struct {
	client          *openai.Client
	researchModel   string
	classifierModel string
	maxTokens       int
	timeout         time.Duration
}

// NewOpenAIReasoner creates a reasoner. Returns nil when no API key is
// configured so callers can degrade gracefully.
func NewOpenAIReasoner(cfg *model.VerifierConfig) *OpenAIReasoner {
	if cfg.APIKey == "" {
		return nil
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1200
	}

	return &OpenAIReasoner{
		client:          openai.NewClient(cfg.APIKey),
		researchModel:   cfg.Model,
		classifierModel: cfg.ClassifierModel,
		maxTokens:       maxTokens,
		timeout:         timeout,
	}
}

// ResearchClaim sends the research prompt and returns the prose
// analysis. The chat completions API surfaces citations inline as
// URLs in the text; the verifier extracts them from the prose.
func (r *OpenAIReasoner) ResearchClaim(ctx context.Context, prompt string) (*ResearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.researchModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a rigorous fact-checking researcher. Cite sources as full URLs.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: r.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("research API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from research API")
	}

	return &ResearchResult{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
	}, nil
}

// Classify reduces a research response to a status and confidence
func (r *OpenAIReasoner) Classify(ctx context.Context, responseText string) (string, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.classifierModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildClassifyPrompt(responseText),
			},
		},
		MaxTokens:   50,
		Temperature: 0,
	})
	if err != nil {
		return "", 0, fmt.Errorf("classify API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, fmt.Errorf("no response from classify API")
	}

	status, confidence := parseClassification(resp.Choices[0].Message.Content)
	if status == "" {
		return "", 0, fmt.Errorf("unparsable classification: %q", resp.Choices[0].Message.Content)
	}
	return status, confidence, nil
}

// RateDomain asks for a 1-10 credibility rating of a domain
func (r *OpenAIReasoner) RateDomain(ctx context.Context, domain string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.classifierModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildDomainPrompt(domain),
			},
		},
		MaxTokens:   5,
		Temperature: 0,
	})
	if err != nil {
		return 0, fmt.Errorf("domain rating API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("no response from domain rating API")
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty rating response")
	}
	n, err := strconv.Atoi(strings.Trim(fields[0], "."))
	if err != nil {
		return 0, fmt.Errorf("unparsable rating %q", raw)
	}
	return n, nil
}

// parseClassification reads the two-line "status:/confidence:" reply.
// Returns ("", 0) when no status line is present.
func parseClassification(text string) (string, float64) {
	status := ""
	confidence := 0.5

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.ToLower(line))
		switch {
		case strings.HasPrefix(line, "status:"):
			status = strings.TrimSpace(strings.TrimPrefix(line, "status:"))
		case strings.HasPrefix(line, "confidence:"):
			if v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "confidence:")), 64); err == nil {
				confidence = v
			}
		}
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return status, confidence
}
