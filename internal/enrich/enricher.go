// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package enrich

import (
	"context"
	"strings"

	"github.com/abmc/earned-media/internal/logging"
)

// Result is the enrichment outcome for one item. Sentiment stays empty
// (unrated) when the model is unavailable; brand matching always runs.
type Result struct {
	Brands    []string
	Sentiment string
	Topic     string
}

// Enricher annotates content with brand mentions, sentiment and topic.
// Deterministic text matching is the baseline; the LLM refines it when
// enabled and reachable. An LLM failure degrades to matcher-only output
// rather than failing the ingestion run.
type Enricher struct {
	llm *LLMClient
}

// NewEnricher builds an enricher around the given client.
func NewEnricher(llm *LLMClient) *Enricher {
	return &Enricher{llm: llm}
}

// Enrich annotates a single item using the tenant's compiled matcher.
func (e *Enricher) Enrich(ctx context.Context, title, excerpt string, matcher *Matcher) Result {
	text := title
	if excerpt != "" {
		text += "\n" + excerpt
	}
	matched := matcher.Match(text)

	if e.llm == nil || !e.llm.Enabled() {
		return Result{Brands: matched}
	}

	tracked := matcher.TrackedNames()
	annotation, err := e.llm.Annotate(ctx, title, excerpt, tracked)
	if err != nil {
		logging.Warn().Err(err).Str("title", truncateTitle(title)).Msg("Enrichment degraded to matcher only")
		return Result{Brands: matched}
	}

	return Result{
		Brands:    matcher.Merge(matched, annotation.Brands),
		Sentiment: annotation.Sentiment,
		Topic:     strings.TrimSpace(annotation.Topic),
	}
}

func truncateTitle(title string) string {
	if len(title) > 80 {
		return title[:80]
	}
	return title
}

