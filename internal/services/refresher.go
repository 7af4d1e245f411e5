package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"redditradar/internal/models"
	"redditradar/internal/store"
)

// freshnessWindow is how long a cached subreddit snapshot stays valid.
const freshnessWindow = 24 * time.Hour

// classifyConcurrency caps in-flight classifier calls within one refresh.
const classifyConcurrency = 5

// PostWithCategories is what the refresher returns to handlers: a post plus
// the theme labels attached to it. Categories is never nil.
type PostWithCategories struct {
	RedditPost
	Categories []string `json:"categories"`
}

// RefreshService serves a subreddit's posts from the store while the cached
// snapshot is fresh, and transparently refreshes from reddit plus the
// classifier when it is stale or absent.
type RefreshService struct {
	store      store.Store
	source     PostSource
	classifier Classifier
	group      singleflight.Group

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

func NewRefreshService(st store.Store, source PostSource, classifier Classifier) *RefreshService {
	return &RefreshService{
		store:      st,
		source:     source,
		classifier: classifier,
		now:        time.Now,
	}
}

// GetPostsForSubreddit returns the subreddit's recent posts with their
// categories. The subreddit row is created on first request. Data is served
// from the store while last_updated is within the freshness window; otherwise
// a full fetch/classify/store cycle runs, shared across concurrent callers
// via singleflight so a stale subreddit is refreshed at most once at a time.
func (s *RefreshService) GetPostsForSubreddit(ctx context.Context, name string) ([]PostWithCategories, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty subreddit name", ErrInvalidInput)
	}

	sub, err := s.store.SubredditByName(name)
	if errors.Is(err, store.ErrNotFound) {
		sub = &models.Subreddit{Name: name}
		if err := s.store.CreateSubreddit(sub); err != nil {
			return nil, fmt.Errorf("%w: creating subreddit %q: %v", ErrStore, name, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if s.isFresh(sub.LastUpdated) {
		cached, err := s.store.PostsWithCategories(sub.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
		// A fresh timestamp over zero rows means metadata and data
		// disagree; trust the data and refresh instead of returning an
		// empty list.
		if len(cached) > 0 {
			return fromStored(cached), nil
		}
		slog.Warn("fresh subreddit has no cached posts, refreshing", "subreddit", name)
	}

	result, err, _ := s.group.Do(name, func() (interface{}, error) {
		return s.refresh(ctx, sub)
	})
	if err != nil {
		return nil, err
	}
	return result.([]PostWithCategories), nil
}

// isFresh reports whether a snapshot taken at lastUpdated is still valid. A
// nil timestamp has never been refreshed. A negative age means the stored
// timestamp is in the future (clock skew) and is treated as stale.
func (s *RefreshService) isFresh(lastUpdated *time.Time) bool {
	if lastUpdated == nil {
		return false
	}
	age := s.now().Sub(*lastUpdated)
	return age >= 0 && age < freshnessWindow
}

// refresh runs one fetch/classify/store cycle and returns the fetched posts
// in source order. last_updated moves only after every post and join row is
// durably written, so a concurrent reader never observes fresh metadata over
// an incomplete snapshot.
func (s *RefreshService) refresh(ctx context.Context, sub *models.Subreddit) ([]PostWithCategories, error) {
	started := s.now()

	fetched, err := s.source.FetchRecentPosts(ctx, sub.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: r/%s: %v", ErrUpstreamFetch, sub.Name, err)
	}

	labels := s.classifyAll(ctx, fetched)

	posts := make([]models.Post, len(fetched))
	for i, p := range fetched {
		redditID := p.Name
		if redditID == "" {
			redditID = p.ID
		}
		posts[i] = models.Post{
			SubredditID:  sub.ID,
			RedditPostID: redditID,
			Title:        p.Title,
			Author:       p.Author,
			Content:      p.Content,
			Score:        p.Score,
			NumComments:  p.NumComments,
			CreatedUTC:   p.CreatedUTC,
			URL:          p.URL,
			FetchedAt:    started,
		}
	}
	if err := s.store.UpsertPosts(posts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if err := s.storeLabels(posts, labels); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if err := s.store.TouchSubreddit(sub.ID, s.now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	result := make([]PostWithCategories, len(fetched))
	for i, p := range fetched {
		categories := labels[i]
		if categories == nil {
			categories = []string{}
		}
		result[i] = PostWithCategories{RedditPost: p, Categories: categories}
	}

	slog.Info("refreshed subreddit",
		"subreddit", sub.Name,
		"posts", len(fetched),
		"took", s.now().Sub(started).String())
	return result, nil
}

// classifyAll tags every fetched post with at most classifyConcurrency calls
// in flight. Posts are independent: a failed call degrades to no categories
// for that one post and never aborts the refresh.
func (s *RefreshService) classifyAll(ctx context.Context, posts []RedditPost) [][]string {
	labels := make([][]string, len(posts))
	sem := make(chan struct{}, classifyConcurrency)
	var wg sync.WaitGroup

	for i, p := range posts {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p RedditPost) {
			defer wg.Done()
			defer func() { <-sem }()

			categories, err := s.classifier.Categorize(ctx, p.Title, p.Content)
			if err != nil {
				slog.Warn("classification failed", "post", p.Name, "err", err)
				return
			}
			labels[i] = categories
		}(i, p)
	}
	wg.Wait()
	return labels
}

// storeLabels ensures category rows exist and upserts the join rows. A
// category or join failure is isolated to its (post, category) pair: partial
// tagging is acceptable. Only the post-table read used to resolve row ids is
// fatal, since it means the post data itself cannot be trusted.
func (s *RefreshService) storeLabels(posts []models.Post, labels [][]string) error {
	redditIDs := make([]string, len(posts))
	for i := range posts {
		redditIDs[i] = posts[i].RedditPostID
	}
	stored, err := s.store.PostsByRedditIDs(redditIDs)
	if err != nil {
		return fmt.Errorf("resolving post ids: %w", err)
	}
	idByRedditID := make(map[string]uint, len(stored))
	for _, p := range stored {
		idByRedditID[p.RedditPostID] = p.ID
	}

	for i, names := range labels {
		postID := idByRedditID[posts[i].RedditPostID]
		if postID == 0 {
			continue
		}
		for _, name := range names {
			category, err := s.store.EnsureCategory(name)
			if err != nil {
				slog.Warn("skipping category", "category", name, "err", err)
				continue
			}
			if err := s.store.UpsertPostCategory(postID, category.ID); err != nil {
				slog.Warn("skipping post-category link", "post_id", postID, "category", name, "err", err)
			}
		}
	}
	return nil
}

// fromStored maps store rows back into the API shape.
func fromStored(rows []store.PostWithCategories) []PostWithCategories {
	result := make([]PostWithCategories, len(rows))
	for i, row := range rows {
		categories := row.Categories
		if categories == nil {
			categories = []string{}
		}
		result[i] = PostWithCategories{
			RedditPost: RedditPost{
				ID:          row.Post.RedditPostID,
				Name:        row.Post.RedditPostID,
				Title:       row.Post.Title,
				Author:      row.Post.Author,
				Content:     row.Post.Content,
				Score:       row.Post.Score,
				NumComments: row.Post.NumComments,
				CreatedUTC:  row.Post.CreatedUTC,
				URL:         row.Post.URL,
			},
			Categories: categories,
		}
	}
	return result
}
