// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package enrich

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/logging"
	"github.com/abmc/earned-media/internal/metrics"
	"github.com/abmc/earned-media/internal/models"
)

const (
	defaultLLMURL   = "http://localhost:11434"
	defaultLLMModel = "llama3.1:8b"
	maxContentChars = 4000
)

// Annotation is the model's judgment of one piece of content.
type Annotation struct {
	Brands    []string `json:"brands"`
	Sentiment string   `json:"sentiment"`
	Topic     string   `json:"topic"`
}

// LLMClient classifies content through an Ollama-compatible chat
// endpoint using structured JSON output. Low temperature keeps labels
// stable across runs.
type LLMClient struct {
	cfg  *config.LLMConfig
	http *http.Client
}

// NewLLMClient builds the enrichment client.
func NewLLMClient(cfg *config.LLMConfig) *LLMClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &LLMClient{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether enrichment calls should be made at all.
func (c *LLMClient) Enabled() bool {
	return c.cfg != nil && c.cfg.Enabled
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   interface{}   `json:"format,omitempty"`
	Options  chatOptions   `json:"options"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// annotationSchema constrains the model to the exact JSON shape we
// parse, including the closed sentiment vocabulary.
var annotationSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"brands": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"sentiment": map[string]interface{}{
			"type": "string",
			"enum": []string{models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative},
		},
		"topic": map[string]interface{}{"type": "string"},
	},
	"required": []string{"brands", "sentiment", "topic"},
}

const systemPrompt = `You analyze earned media content for a brand monitoring product.
Given a piece of content and a list of tracked brands, respond with JSON:
brands mentioned (from the tracked list only), overall sentiment toward
those brands (positive, neutral or negative), and a short topic label of
at most five words.`

// Annotate classifies one item's text. Retries transient failures with
// backoff up to the configured attempt count.
func (c *LLMClient) Annotate(ctx context.Context, title, excerpt string, trackedBrands []string) (*Annotation, error) {
	content := title
	if excerpt != "" {
		content += "\n\n" + excerpt
	}
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}

	userPrompt := fmt.Sprintf("Tracked brands: %s\n\nContent:\n%s",
		strings.Join(trackedBrands, ", "), content)

	attempts := c.cfg.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		annotation, err := c.chat(ctx, userPrompt)
		if err == nil {
			return annotation, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		logging.Warn().Err(err).Int("attempt", attempt).Msg("LLM annotation failed")
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}
	return nil, fmt.Errorf("llm annotation failed after %d attempts: %w", attempts, lastErr)
}

func (c *LLMClient) chat(ctx context.Context, userPrompt string) (*Annotation, error) {
	start := time.Now()

	model := c.cfg.Model
	if model == "" {
		model = defaultLLMModel
	}
	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream:  false,
		Format:  annotationSchema,
		Options: chatOptions{Temperature: c.cfg.Temperature},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	base := c.cfg.URL
	if base == "" {
		base = defaultLLMURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(base, "/")+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordLLMRequest(time.Since(start), "error")
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.RecordLLMRequest(time.Since(start), "error")
		return nil, fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordLLMRequest(time.Since(start), "error")
		return nil, fmt.Errorf("chat endpoint returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		metrics.RecordLLMRequest(time.Since(start), "error")
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	if chatResp.Error != "" {
		metrics.RecordLLMRequest(time.Since(start), "error")
		return nil, fmt.Errorf("chat endpoint error: %s", chatResp.Error)
	}

	var annotation Annotation
	if err := json.Unmarshal([]byte(chatResp.Message.Content), &annotation); err != nil {
		metrics.RecordLLMRequest(time.Since(start), "parse_error")
		return nil, fmt.Errorf("model returned invalid annotation JSON: %w", err)
	}
	if !models.IsValidSentiment(annotation.Sentiment) {
		annotation.Sentiment = models.SentimentNeutral
	}

	metrics.RecordLLMRequest(time.Since(start), "success")
	return &annotation, nil
}
