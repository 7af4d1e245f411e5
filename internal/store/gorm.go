package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"redditradar/internal/models"
)

// GormStore implements Store on a gorm Postgres handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) SubredditByName(name string) (*models.Subreddit, error) {
	var sub models.Subreddit
	if err := s.db.Where("name = ?", name).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading subreddit %q: %w", name, err)
	}
	return &sub, nil
}

func (s *GormStore) CreateSubreddit(sub *models.Subreddit) error {
	if err := s.db.Create(sub).Error; err != nil {
		return fmt.Errorf("creating subreddit %q: %w", sub.Name, err)
	}
	return nil
}

func (s *GormStore) TouchSubreddit(id uint, t time.Time) error {
	err := s.db.Model(&models.Subreddit{}).Where("id = ?", id).
		Update("last_updated", &t).Error
	if err != nil {
		return fmt.Errorf("updating subreddit %d last_updated: %w", id, err)
	}
	return nil
}

func (s *GormStore) ListSubreddits() ([]models.Subreddit, error) {
	var subs []models.Subreddit
	if err := s.db.Order("name ASC").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("listing subreddits: %w", err)
	}
	return subs, nil
}

func (s *GormStore) PostsWithCategories(subredditID uint) ([]PostWithCategories, error) {
	var posts []models.Post
	err := s.db.Where("subreddit_id = ?", subredditID).
		Order("created_utc DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("loading posts for subreddit %d: %w", subredditID, err)
	}
	if len(posts) == 0 {
		return nil, nil
	}

	postIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	type joinRow struct {
		PostID uint
		Name   string
	}
	var rows []joinRow
	err = s.db.Model(&models.PostCategory{}).
		Select("post_categories.post_id, categories.name").
		Joins("JOIN categories ON categories.id = post_categories.category_id").
		Where("post_categories.post_id IN ?", postIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading categories for subreddit %d: %w", subredditID, err)
	}

	namesByPost := make(map[uint][]string, len(rows))
	for _, row := range rows {
		namesByPost[row.PostID] = append(namesByPost[row.PostID], row.Name)
	}

	result := make([]PostWithCategories, 0, len(posts))
	for _, p := range posts {
		result = append(result, PostWithCategories{Post: p, Categories: namesByPost[p.ID]})
	}
	return result, nil
}

func (s *GormStore) PostsByRedditIDs(redditPostIDs []string) ([]models.Post, error) {
	if len(redditPostIDs) == 0 {
		return nil, nil
	}
	var posts []models.Post
	if err := s.db.Where("reddit_post_id IN ?", redditPostIDs).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("loading posts by reddit id: %w", err)
	}
	return posts, nil
}

func (s *GormStore) UpsertPosts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reddit_post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "num_comments", "content", "fetched_at"}),
	}).Create(&posts).Error
	if err != nil {
		return fmt.Errorf("upserting %d posts: %w", len(posts), err)
	}
	return nil
}

func (s *GormStore) EnsureCategory(name string) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("name = ?", name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading category %q: %w", name, err)
	}

	// Not found: insert, tolerating a concurrent insert of the same name.
	category = models.Category{Name: name, IsCustom: true}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&category).Error
	if err != nil {
		return nil, fmt.Errorf("creating category %q: %w", name, err)
	}

	// DoNothing leaves ID zero when another writer won the race; re-read.
	if category.ID == 0 {
		if err := s.db.Where("name = ?", name).First(&category).Error; err != nil {
			return nil, fmt.Errorf("re-reading category %q: %w", name, err)
		}
	}
	return &category, nil
}

func (s *GormStore) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

func (s *GormStore) UpsertPostCategory(postID, categoryID uint) error {
	link := models.PostCategory{PostID: postID, CategoryID: categoryID}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "category_id"}},
		DoNothing: true,
	}).Create(&link).Error
	if err != nil {
		return fmt.Errorf("linking post %d to category %d: %w", postID, categoryID, err)
	}
	return nil
}
