package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blogicum/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentEmpty    = errors.New("comment text is required")
)

// CommentService wraps comment related database operations.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// ListForPost returns comments of a post, oldest first.
func (s *CommentService) ListForPost(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at asc").
		Order("id asc").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Get returns the comment only when it belongs to postID.
func (s *CommentService) Get(postID, commentID uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.Preload("Author").
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// Create links a new comment to postID and authorID.
func (s *CommentService) Create(postID, authorID uint, text string) (*db.Comment, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrCommentEmpty
	}

	comment := db.Comment{Text: trimmed, PostID: postID, AuthorID: authorID}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

// Update replaces the comment text.
func (s *CommentService) Update(postID, commentID uint, text string) (*db.Comment, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrCommentEmpty
	}

	comment, err := s.Get(postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(comment).Update("text", trimmed).Error; err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	comment.Text = trimmed
	return comment, nil
}

// Delete removes a comment of postID.
func (s *CommentService) Delete(postID, commentID uint) error {
	result := s.db.Where("id = ? AND post_id = ?", commentID, postID).Delete(&db.Comment{})
	if result.Error != nil {
		return fmt.Errorf("delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
