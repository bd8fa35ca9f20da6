// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/models"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// YouTubeProvider queries the YouTube Data API v3. A search pass finds
// video IDs for the feed's query or channel; a videos pass fetches view
// and engagement statistics for those IDs.
type YouTubeProvider struct {
	cfg    *config.YouTubeConfig
	client *apiClient
}

// NewYouTubeProvider builds the YouTube provider.
func NewYouTubeProvider(cfg *config.YouTubeConfig) *YouTubeProvider {
	return &YouTubeProvider{
		cfg:    cfg,
		client: newAPIClient("youtube", cfg.Timeout, 2),
	}
}

func (p *YouTubeProvider) Name() string { return models.SourceYouTube }

func (p *YouTubeProvider) baseURL() string {
	if p.cfg.BaseURL != "" {
		return p.cfg.BaseURL
	}
	return defaultYouTubeBaseURL
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type youtubeVideosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Fetch searches for videos and joins in their statistics.
func (p *YouTubeProvider) Fetch(ctx context.Context, feed *models.FeedConfig) ([]Item, error) {
	if p.cfg.APIKey == "" {
		return nil, fmt.Errorf("youtube api key not configured")
	}
	if feed.Params.Query == "" && feed.Params.ChannelID == "" {
		return nil, fmt.Errorf("youtube feed %q needs a query or channel_id", feed.Name)
	}

	max := feed.Params.MaxItems
	if max <= 0 {
		max = p.cfg.MaxResults
	}
	if max <= 0 || max > 50 {
		max = 25
	}

	ids, err := p.search(ctx, feed, max)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return p.videos(ctx, ids)
}

func (p *YouTubeProvider) search(ctx context.Context, feed *models.FeedConfig, max int) ([]string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("maxResults", strconv.Itoa(max))
	params.Set("key", p.cfg.APIKey)
	if feed.Params.Query != "" {
		params.Set("q", feed.Params.Query)
	}
	if feed.Params.ChannelID != "" {
		params.Set("channelId", feed.Params.ChannelID)
	}

	var resp youtubeSearchResponse
	if err := p.client.getJSON(ctx, p.baseURL()+"/search?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ID.VideoID != "" {
			ids = append(ids, it.ID.VideoID)
		}
	}
	return ids, nil
}

func (p *YouTubeProvider) videos(ctx context.Context, ids []string) ([]Item, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", p.cfg.APIKey)

	var resp youtubeVideosResponse
	if err := p.client.getJSON(ctx, p.baseURL()+"/videos?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("youtube videos lookup failed: %w", err)
	}

	items := make([]Item, 0, len(resp.Items))
	for _, video := range resp.Items {
		views := parseCount(video.Statistics.ViewCount)
		likes := parseCount(video.Statistics.LikeCount)
		comments := parseCount(video.Statistics.CommentCount)

		item := Item{
			ExternalID: video.ID,
			Source:     models.SourceYouTube,
			Title:      video.Snippet.Title,
			URL:        "https://www.youtube.com/watch?v=" + video.ID,
			Excerpt:    truncate(video.Snippet.Description, 1000),
			Author:     video.Snippet.ChannelTitle,
			Reach:      views,
			Engagement: likes + comments,
		}
		if ts, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt); err == nil {
			item.PublishedAt = &ts
		}
		items = append(items, item)
	}
	return items, nil
}

// parseCount reads the API's string-typed counters; absent stats (for
// example comments disabled) come through as zero.
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
