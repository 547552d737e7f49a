package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blogicum/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrTitleTooLong     = errors.New("title is too long")
	ErrTextRequired     = errors.New("text is required")
	ErrCategoryInvalid  = errors.New("category does not exist")
	ErrLocationInvalid  = errors.New("location does not exist")
	ErrPubDateRequired  = errors.New("publication date is required")
	ErrAuthorIsRequired = errors.New("author is required")
)

const defaultPerPage = 10

// PostService wraps post related database operations.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// PostQuery describes which posts a listing may contain.
//
// OnlyPublished and BanDelayed mirror the two visibility toggles; PublishedCategory
// hides posts whose category is unpublished. AuthorID and CategoryID scope the
// base collection and are ignored when zero.
type PostQuery struct {
	OnlyPublished     bool
	BanDelayed        bool
	PublishedCategory bool
	AuthorID          uint
	CategoryID        uint
	Page              int
	PerPage           int
}

// PublicQuery returns the query used for anonymous listings.
func PublicQuery() PostQuery {
	return PostQuery{OnlyPublished: true, BanDelayed: true, PublishedCategory: true}
}

// PostListResult aggregates paginated list data.
type PostListResult struct {
	Posts      []db.Post
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// HasPrev reports whether a previous page exists.
func (r *PostListResult) HasPrev() bool { return r.Page > 1 }

// HasNext reports whether a next page exists.
func (r *PostListResult) HasNext() bool { return r.Page < r.TotalPages }

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title       string    `validate:"required,max=256"`
	Text        string    `validate:"required"`
	PubDate     time.Time `validate:"required"`
	IsPublished bool
	CategoryID  *uint
	LocationID  *uint
	AuthorID    uint
	ImageURL    string
	ImageWidth  int
	ImageHeight int
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb, now: time.Now}
}

// SetClock overrides the time source, used by tests.
func (s *PostService) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the service's current time in UTC.
func (s *PostService) Now() time.Time {
	return s.now().UTC()
}

const commentCountSelect = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) AS comment_count"

// Filtered builds the post query: conditional visibility filters, eager loaded
// relations, comment counts and newest-first ordering.
func (s *PostService) Filtered(q PostQuery) *gorm.DB {
	query := s.db.Model(&db.Post{})
	query = s.applyFilters(query, q)
	return query.
		Select(commentCountSelect).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order("posts.pub_date desc").
		Order("posts.id desc")
}

func (s *PostService) applyFilters(query *gorm.DB, q PostQuery) *gorm.DB {
	if q.OnlyPublished {
		query = query.Where("posts.is_published = ?", true)
	}
	if q.BanDelayed {
		query = query.Where("posts.pub_date <= ?", s.Now())
	}
	if q.PublishedCategory {
		query = query.Where("posts.category_id IS NULL OR posts.category_id IN (?)",
			s.db.Model(&db.Category{}).Select("id").Where("is_published = ?", true))
	}
	if q.AuthorID != 0 {
		query = query.Where("posts.author_id = ?", q.AuthorID)
	}
	if q.CategoryID != 0 {
		query = query.Where("posts.category_id = ?", q.CategoryID)
	}
	return query
}

// List returns one page of posts matching the query.
func (s *PostService) List(q PostQuery) (*PostListResult, error) {
	result := &PostListResult{
		Page:    normalizePage(q.Page),
		PerPage: normalizePerPage(q.PerPage, defaultPerPage),
	}

	counter := s.applyFilters(s.db.Model(&db.Post{}), q)
	if err := counter.Count(&result.Total).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	offset := (result.Page - 1) * result.PerPage
	var posts []db.Post
	if err := s.Filtered(q).Limit(result.PerPage).Offset(offset).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	result.Posts = posts
	return result, nil
}

// Get fetches a post by id with relations and comment count loaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.Filtered(PostQuery{}).Where("posts.id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// CanView reports whether viewerID may see the post. Zero means anonymous.
func (s *PostService) CanView(post *db.Post, viewerID uint) bool {
	if post == nil {
		return false
	}
	if viewerID != 0 && post.AuthorID == viewerID {
		return true
	}
	return post.IsVisibleAt(s.Now())
}

// GetVisible returns the post if viewerID may see it, ErrPostNotFound otherwise.
func (s *PostService) GetVisible(id, viewerID uint) (*db.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !s.CanView(post, viewerID) {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Create persists a new post for input.AuthorID.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	if input.AuthorID == 0 {
		return nil, ErrAuthorIsRequired
	}
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	post := db.Post{AuthorID: input.AuthorID}
	applyPostInput(&post, input)

	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.Get(post.ID)
}

// Update applies input to an existing post. The author never changes.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	keepImage := strings.TrimSpace(input.ImageURL) == ""
	imageURL, imageWidth, imageHeight := existing.ImageURL, existing.ImageWidth, existing.ImageHeight
	applyPostInput(&existing, input)
	if keepImage {
		existing.ImageURL, existing.ImageWidth, existing.ImageHeight = imageURL, imageWidth, imageHeight
	}

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return s.Get(existing.ID)
}

// Delete removes a post together with its comments.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&db.Post{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete post: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}
		if err := tx.Where("post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return fmt.Errorf("delete post comments: %w", err)
		}
		return nil
	})
}

var postInputErrors = map[string]error{
	"Title.required": ErrTitleRequired,
	"Title.max":      ErrTitleTooLong,
	"Text":           ErrTextRequired,
	"PubDate":        ErrPubDateRequired,
}

// Validate checks input the same way Create and Update do, without writing anything.
func (s *PostService) Validate(input PostInput) error {
	return s.validate(&input)
}

func (s *PostService) validate(input *PostInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Text = strings.TrimSpace(input.Text)

	if err := validateInput(input, postInputErrors); err != nil {
		return err
	}

	if input.CategoryID != nil {
		if err := s.mustExist(&db.Category{}, *input.CategoryID, ErrCategoryInvalid); err != nil {
			return err
		}
	}
	if input.LocationID != nil {
		if err := s.mustExist(&db.Location{}, *input.LocationID, ErrLocationInvalid); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostService) mustExist(model interface{}, id uint, notFound error) error {
	var count int64
	if err := s.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}

func applyPostInput(post *db.Post, input PostInput) {
	post.Title = input.Title
	post.Text = input.Text
	post.PubDate = input.PubDate.UTC()
	post.IsPublished = input.IsPublished
	post.CategoryID = input.CategoryID
	post.LocationID = input.LocationID
	post.ImageURL = strings.TrimSpace(input.ImageURL)
	post.ImageWidth = input.ImageWidth
	post.ImageHeight = input.ImageHeight
}
