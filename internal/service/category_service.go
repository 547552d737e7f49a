package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blogicum/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category slug already exists")
	ErrCategoryInput    = errors.New("category title and slug are required")
	ErrLocationInput    = errors.New("location name is required")
)

// CategoryService wraps category and location lookups.
type CategoryService struct {
	db *gorm.DB
}

// CategoryInput represents fields accepted when creating a category.
type CategoryInput struct {
	Title       string
	Description string
	Slug        string
	IsPublished bool
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// GetPublishedBySlug returns a published category or ErrCategoryNotFound.
func (s *CategoryService) GetPublishedBySlug(slug string) (*db.Category, error) {
	var category db.Category
	err := s.db.Where("slug = ? AND is_published = ?", strings.TrimSpace(slug), true).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

// ListPublished returns published categories ordered by title.
func (s *CategoryService) ListPublished() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Where("is_published = ?", true).Order("title asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListAll returns every category, published or not, ordered by title.
func (s *CategoryService) ListAll() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("title asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListAllLocations returns every location ordered by name.
func (s *CategoryService) ListAllLocations() ([]db.Location, error) {
	var locations []db.Location
	if err := s.db.Order("name asc").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

// Create adds a category. Slugs are unique.
func (s *CategoryService) Create(input CategoryInput) (*db.Category, error) {
	title := strings.TrimSpace(input.Title)
	slug := strings.TrimSpace(input.Slug)
	if title == "" || slug == "" {
		return nil, ErrCategoryInput
	}

	var count int64
	if err := s.db.Model(&db.Category{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryExists
	}

	category := db.Category{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Slug:        slug,
		IsPublished: input.IsPublished,
	}
	if err := s.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

// CreateLocation adds a location.
func (s *CategoryService) CreateLocation(name string, published bool) (*db.Location, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrLocationInput
	}
	location := db.Location{Name: trimmed, IsPublished: published}
	if err := s.db.Create(&location).Error; err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return &location, nil
}
