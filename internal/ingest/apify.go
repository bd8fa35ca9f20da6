// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package ingest

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/models"
)

const defaultApifyBaseURL = "https://api.apify.com"

// ApifyProvider runs scraping actors through Apify's synchronous API.
// One instance serves one platform (instagram or tiktok); the actor ID
// and the dataset item shape differ, everything else is shared.
type ApifyProvider struct {
	cfg      *config.ApifyConfig
	platform string
	actor    string
	client   *apiClient
}

// NewInstagramProvider builds the Instagram scraping provider.
func NewInstagramProvider(cfg *config.ApifyConfig) *ApifyProvider {
	return &ApifyProvider{
		cfg:      cfg,
		platform: models.SourceInstagram,
		actor:    cfg.InstagramActor,
		client:   newAPIClient("apify-instagram", cfg.Timeout, 0.5),
	}
}

// NewTikTokProvider builds the TikTok scraping provider.
func NewTikTokProvider(cfg *config.ApifyConfig) *ApifyProvider {
	return &ApifyProvider{
		cfg:      cfg,
		platform: models.SourceTikTok,
		actor:    cfg.TikTokActor,
		client:   newAPIClient("apify-tiktok", cfg.Timeout, 0.5),
	}
}

func (p *ApifyProvider) Name() string { return p.platform }

// runSyncURL builds the run-sync-get-dataset-items endpoint, which runs
// the actor and returns the dataset in one call.
func (p *ApifyProvider) runSyncURL() string {
	base := p.cfg.BaseURL
	if base == "" {
		base = defaultApifyBaseURL
	}
	return fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		base, url.PathEscape(p.actor), url.QueryEscape(p.cfg.Token))
}

// Fetch runs the actor with input derived from the feed parameters and
// maps the dataset items.
func (p *ApifyProvider) Fetch(ctx context.Context, feed *models.FeedConfig) ([]Item, error) {
	if p.cfg.Token == "" {
		return nil, fmt.Errorf("apify token not configured")
	}
	if len(feed.Params.Usernames) == 0 && len(feed.Params.Hashtags) == 0 {
		return nil, fmt.Errorf("%s feed %q needs usernames or hashtags", p.platform, feed.Name)
	}

	max := feed.Params.MaxItems
	if max <= 0 {
		max = p.cfg.MaxItems
	}
	if max <= 0 {
		max = 50
	}

	switch p.platform {
	case models.SourceInstagram:
		return p.fetchInstagram(ctx, feed, max)
	case models.SourceTikTok:
		return p.fetchTikTok(ctx, feed, max)
	default:
		return nil, fmt.Errorf("unsupported apify platform %q", p.platform)
	}
}

// instagramInput is the actor input for apify~instagram-scraper.
type instagramInput struct {
	DirectURLs   []string `json:"directUrls,omitempty"`
	SearchType   string   `json:"searchType,omitempty"`
	Search       string   `json:"search,omitempty"`
	ResultsType  string   `json:"resultsType"`
	ResultsLimit int      `json:"resultsLimit"`
}

type instagramPost struct {
	ID            string `json:"id"`
	ShortCode     string `json:"shortCode"`
	Caption       string `json:"caption"`
	URL           string `json:"url"`
	OwnerUsername string `json:"ownerUsername"`
	Timestamp     string `json:"timestamp"`
	LikesCount    int64  `json:"likesCount"`
	CommentsCount int64  `json:"commentsCount"`
	VideoViewCount int64 `json:"videoViewCount"`
}

func (p *ApifyProvider) fetchInstagram(ctx context.Context, feed *models.FeedConfig, max int) ([]Item, error) {
	input := instagramInput{
		ResultsType:  "posts",
		ResultsLimit: max,
	}
	for _, username := range feed.Params.Usernames {
		input.DirectURLs = append(input.DirectURLs, "https://www.instagram.com/"+username+"/")
	}
	if len(input.DirectURLs) == 0 && len(feed.Params.Hashtags) > 0 {
		input.SearchType = "hashtag"
		input.Search = feed.Params.Hashtags[0]
	}

	var posts []instagramPost
	if err := p.client.postJSON(ctx, p.runSyncURL(), input, &posts); err != nil {
		return nil, fmt.Errorf("instagram actor run failed: %w", err)
	}

	items := make([]Item, 0, len(posts))
	for _, post := range posts {
		if len(items) >= max {
			break
		}
		item := Item{
			ExternalID: post.ID,
			Source:     models.SourceInstagram,
			Title:      truncate(post.Caption, 200),
			URL:        post.URL,
			Excerpt:    truncate(post.Caption, 1000),
			Author:     post.OwnerUsername,
			Reach:      post.VideoViewCount,
			Engagement: post.LikesCount + post.CommentsCount,
		}
		if ts, err := time.Parse(time.RFC3339, post.Timestamp); err == nil {
			item.PublishedAt = &ts
		}
		items = append(items, item)
	}
	return items, nil
}

// tiktokInput is the actor input for clockworks~tiktok-scraper.
type tiktokInput struct {
	Profiles        []string `json:"profiles,omitempty"`
	Hashtags        []string `json:"hashtags,omitempty"`
	ResultsPerPage  int      `json:"resultsPerPage"`
	ExcludePinnedPosts bool  `json:"excludePinnedPosts"`
}

type tiktokVideo struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	WebVideoURL string `json:"webVideoUrl"`
	CreateTime  int64  `json:"createTime"`
	DiggCount   int64  `json:"diggCount"`
	ShareCount  int64  `json:"shareCount"`
	PlayCount   int64  `json:"playCount"`
	CommentCount int64 `json:"commentCount"`
	AuthorMeta  struct {
		Name string `json:"name"`
	} `json:"authorMeta"`
}

func (p *ApifyProvider) fetchTikTok(ctx context.Context, feed *models.FeedConfig, max int) ([]Item, error) {
	input := tiktokInput{
		Profiles:       feed.Params.Usernames,
		Hashtags:       feed.Params.Hashtags,
		ResultsPerPage: max,
	}

	var videos []tiktokVideo
	if err := p.client.postJSON(ctx, p.runSyncURL(), input, &videos); err != nil {
		return nil, fmt.Errorf("tiktok actor run failed: %w", err)
	}

	items := make([]Item, 0, len(videos))
	for _, video := range videos {
		if len(items) >= max {
			break
		}
		item := Item{
			ExternalID: video.ID,
			Source:     models.SourceTikTok,
			Title:      truncate(video.Text, 200),
			URL:        video.WebVideoURL,
			Excerpt:    truncate(video.Text, 1000),
			Author:     video.AuthorMeta.Name,
			Reach:      video.PlayCount,
			Engagement: video.DiggCount + video.ShareCount + video.CommentCount,
		}
		if video.CreateTime > 0 {
			ts := time.Unix(video.CreateTime, 0).UTC()
			item.PublishedAt = &ts
		}
		items = append(items, item)
	}
	return items, nil
}
