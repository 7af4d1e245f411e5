package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"
)

// RedditPost is the neutral post shape handed to the refresher, matching one
// listing entry from the reddit API. Name is the fullname (e.g. t3_abc123).
type RedditPost struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Content     string `json:"content"`
	Score       int    `json:"score"`
	NumComments int    `json:"numComments"`
	CreatedUTC  int64  `json:"createdUTC"`
	URL         string `json:"url"`
}

// PostSource fetches a subreddit's recent posts.
type PostSource interface {
	FetchRecentPosts(ctx context.Context, subreddit string) ([]RedditPost, error)
}

// RedditService talks to the reddit API with script-app credentials from
// REDDIT_CLIENT_ID / REDDIT_CLIENT_SECRET / REDDIT_USERNAME / REDDIT_PASSWORD.
type RedditService struct {
	client    *reddit.Client
	limiter   *rate.Limiter
	sanitizer *bluemonday.Policy
	window    time.Duration
}

func NewRedditService() (*RedditService, error) {
	creds := reddit.Credentials{
		ID:       os.Getenv("REDDIT_CLIENT_ID"),
		Secret:   os.Getenv("REDDIT_CLIENT_SECRET"),
		Username: os.Getenv("REDDIT_USERNAME"),
		Password: os.Getenv("REDDIT_PASSWORD"),
	}

	userAgent := os.Getenv("REDDIT_USER_AGENT")
	if userAgent == "" {
		userAgent = "web:redditradar:v1.0.0"
	}

	client, err := reddit.NewClient(creds, reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, fmt.Errorf("creating reddit client: %w", err)
	}

	// Token bucket: stay well under reddit's 60 req/min for OAuth clients.
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &RedditService{
		client:    client,
		limiter:   limiter,
		sanitizer: bluemonday.StrictPolicy(),
		window:    24 * time.Hour,
	}, nil
}

// FetchRecentPosts returns the subreddit's newest posts from the last 24
// hours, newest first. Selftext is stripped of any HTML before it is stored
// or sent to the classifier.
func (s *RedditService) FetchRecentPosts(ctx context.Context, subreddit string) ([]RedditPost, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	posts, _, err := s.client.Subreddit.NewPosts(ctx, subreddit, &reddit.ListOptions{Limit: 100})
	if err != nil {
		return nil, fmt.Errorf("fetching r/%s: %w", subreddit, err)
	}

	cutoff := time.Now().Add(-s.window)
	var result []RedditPost
	for _, p := range posts {
		if p.Created == nil || p.Created.Time.Before(cutoff) {
			continue
		}
		result = append(result, RedditPost{
			ID:          p.ID,
			Name:        p.FullID,
			Title:       p.Title,
			Author:      p.Author,
			Content:     s.sanitizer.Sanitize(p.Body),
			Score:       p.Score,
			NumComments: p.NumberOfComments,
			CreatedUTC:  p.Created.Time.Unix(),
			URL:         p.URL,
		})
	}
	return result, nil
}
