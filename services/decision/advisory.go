package decision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Advisor is an untrusted external oracle consulted for a non-binding decision
// suggestion. Implementations must treat the reply as opaque text.
type Advisor interface {
	IsConfigured() bool
	Ask(ctx context.Context, prompt string) (string, error)
}

// AdvisoryConfig carries everything the client needs; IsConfigured is a pure
// function of this struct, not of ambient state.
type AdvisoryConfig struct {
	APIKey     string
	Model      string
	Enabled    bool
	Timeout    time.Duration // overall budget per Ask call
	MaxRetries int           // transient failures only
	Backoff    time.Duration // fixed delay between retries
}

func (c AdvisoryConfig) IsConfigured() bool {
	return c.Enabled && c.APIKey != ""
}

// generateFunc is the single model call; the retry loop in Ask wraps it.
type generateFunc func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)

// GeminiAdvisor implements Advisor against the Gemini API.
type GeminiAdvisor struct {
	cfg      AdvisoryConfig
	generate generateFunc
}

// NewGeminiAdvisor builds the client. When the config is not usable no network
// client is created and every Ask fails fast with ErrAdvisoryUnavailable.
func NewGeminiAdvisor(cfg AdvisoryConfig) (*GeminiAdvisor, error) {
	a := &GeminiAdvisor{cfg: cfg}
	if !cfg.IsConfigured() {
		return a, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Model)
	a.generate = func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
		return model.GenerateContent(ctx, genai.Text(prompt))
	}
	return a, nil
}

func (a *GeminiAdvisor) IsConfigured() bool {
	return a.cfg.IsConfigured() && a.generate != nil
}

// Ask sends the prompt and returns the raw text reply. Transient failures are
// retried MaxRetries times with a fixed backoff inside the overall Timeout;
// credential/validation (4xx) failures are not retried.
func (a *GeminiAdvisor) Ask(ctx context.Context, prompt string) (string, error) {
	if !a.IsConfigured() {
		return "", ErrAdvisoryUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= a.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(a.cfg.Backoff):
			case <-ctx.Done():
				return "", fmt.Errorf("advisory call: %v: %w", ctx.Err(), ErrAdvisoryTimeout)
			}
		}

		resp, err := a.generate(ctx, prompt)
		if err == nil {
			text := collectText(resp)
			if text == "" {
				return "", fmt.Errorf("empty advisory reply: %w", ErrAdvisoryMalformed)
			}
			return text, nil
		}

		if ctx.Err() != nil {
			return "", fmt.Errorf("advisory call: %v: %w", err, ErrAdvisoryTimeout)
		}
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 {
			return "", fmt.Errorf("advisory call: %v: %w", err, ErrAdvisoryRejected)
		}
		lastErr = err
	}
	return "", fmt.Errorf("advisory call failed after retries: %v: %w", lastErr, ErrAdvisoryTimeout)
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String()
}
