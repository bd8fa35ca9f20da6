// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/models"
)

func llmTestConfig(url string) *config.LLMConfig {
	return &config.LLMConfig{
		Enabled:     true,
		URL:         url,
		Model:       "test-model",
		Temperature: 0.2,
		MaxRetries:  1,
	}
}

func TestAnnotate(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s, want /api/chat", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"message":{"role":"assistant",
			"content":"{\"brands\":[\"Acme\"],\"sentiment\":\"positive\",\"topic\":\"product launch\"}"}}`))
	}))
	defer server.Close()

	client := NewLLMClient(llmTestConfig(server.URL))
	annotation, err := client.Annotate(context.Background(), "Acme launches", "Details here", []string{"Acme", "Globex"})
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}

	if gotReq.Model != "test-model" || gotReq.Stream {
		t.Errorf("request model/stream = %s/%v", gotReq.Model, gotReq.Stream)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if gotReq.Format == nil {
		t.Error("structured output format not sent")
	}

	want := &Annotation{Brands: []string{"Acme"}, Sentiment: "positive", Topic: "product launch"}
	if !reflect.DeepEqual(annotation, want) {
		t.Errorf("Annotate() = %+v, want %+v", annotation, want)
	}
}

func TestAnnotateInvalidSentimentFallsBackToNeutral(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"role":"assistant",
			"content":"{\"brands\":[],\"sentiment\":\"ecstatic\",\"topic\":\"x\"}"}}`))
	}))
	defer server.Close()

	client := NewLLMClient(llmTestConfig(server.URL))
	annotation, err := client.Annotate(context.Background(), "t", "", nil)
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}
	if annotation.Sentiment != models.SentimentNeutral {
		t.Errorf("Sentiment = %q, want neutral", annotation.Sentiment)
	}
}

func TestAnnotateRetriesThenFails(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := llmTestConfig(server.URL)
	cfg.MaxRetries = 2
	client := NewLLMClient(cfg)

	if _, err := client.Annotate(context.Background(), "t", "", nil); err == nil {
		t.Error("Annotate() returned nil error from failing endpoint")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestEnricherDegradesWithoutLLM(t *testing.T) {
	enricher := NewEnricher(NewLLMClient(&config.LLMConfig{Enabled: false}))
	matcher := NewMatcher(testBrands())

	result := enricher.Enrich(context.Background(), "Acme ships an update", "", matcher)
	if !reflect.DeepEqual(result.Brands, []string{"Acme"}) {
		t.Errorf("Brands = %v, want [Acme]", result.Brands)
	}
	if result.Sentiment != "" || result.Topic != "" {
		t.Errorf("sentiment/topic = %q/%q, want empty", result.Sentiment, result.Topic)
	}
}

func TestEnricherMergesLLMBrands(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"role":"assistant",
			"content":"{\"brands\":[\"Globex\",\"Umbrella\"],\"sentiment\":\"negative\",\"topic\":\"recall\"}"}}`))
	}))
	defer server.Close()

	enricher := NewEnricher(NewLLMClient(llmTestConfig(server.URL)))
	matcher := NewMatcher(testBrands())

	result := enricher.Enrich(context.Background(), "Acme recall widens", "", matcher)
	if !reflect.DeepEqual(result.Brands, []string{"Acme", "Globex"}) {
		t.Errorf("Brands = %v, want [Acme Globex]", result.Brands)
	}
	if result.Sentiment != models.SentimentNegative || result.Topic != "recall" {
		t.Errorf("sentiment/topic = %q/%q", result.Sentiment, result.Topic)
	}
}

func TestEnricherSurvivesLLMOutage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	enricher := NewEnricher(NewLLMClient(llmTestConfig(server.URL)))
	matcher := NewMatcher(testBrands())

	result := enricher.Enrich(context.Background(), "Acme update", "", matcher)
	if !reflect.DeepEqual(result.Brands, []string{"Acme"}) {
		t.Errorf("Brands = %v, want matcher fallback [Acme]", result.Brands)
	}
	if result.Sentiment != "" {
		t.Errorf("Sentiment = %q, want unrated", result.Sentiment)
	}
}
