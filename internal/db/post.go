package db

import (
	"time"

	"gorm.io/gorm"
)

// Category 定义了文章分类，IsPublished=false 时隐藏其下全部文章
type Category struct {
	gorm.Model
	Title       string `gorm:"size:256;not null"`
	Description string `gorm:"type:text"`
	Slug        string `gorm:"size:64;uniqueIndex;not null"`
	IsPublished bool
	Posts       []Post
}

// Location 定义了文章的地点
type Location struct {
	gorm.Model
	Name        string `gorm:"size:256;not null"`
	IsPublished bool
}

// Post 定义了文章模型
type Post struct {
	gorm.Model
	Title       string    `gorm:"size:256;not null"`
	Text        string    `gorm:"type:text;not null"`
	PubDate     time.Time `gorm:"index;not null"`
	IsPublished bool      `gorm:"index"`
	AuthorID    uint      `gorm:"index;not null"`
	Author      User
	CategoryID  *uint `gorm:"index"`
	Category    *Category
	LocationID  *uint
	Location    *Location
	ImageURL    string
	ImageWidth  int
	ImageHeight int
	Comments    []Comment

	// CommentCount 由查询中的子查询填充，不参与迁移和写入
	CommentCount int64 `gorm:"->;-:migration"`
}

// IsVisibleAt 判断文章在给定时间对公众是否可见。
func (p Post) IsVisibleAt(now time.Time) bool {
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	if p.Category != nil && !p.Category.IsPublished {
		return false
	}
	return true
}

// Comment 定义了文章评论，CreatedAt 即评论时间
type Comment struct {
	gorm.Model
	Text     string `gorm:"type:text;not null"`
	PostID   uint   `gorm:"index;not null"`
	Post     Post
	AuthorID uint `gorm:"index;not null"`
	Author   User
}
