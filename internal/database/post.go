package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// DefaultImage is the placeholder used when a post or tournament has no uploaded image.
const DefaultImage = "default.png"

// Post is a news entry written by an administrator.
type Post struct {
	ID         uint      `gorm:"primarykey"`
	DatePosted time.Time `gorm:"not null;index"`
	UpdatedAt  time.Time
	Title      string `gorm:"size:100;not null"`
	Content    string `gorm:"type:text;not null"`
	ImageFile  string `gorm:"size:255;not null;default:default.png"`
	UserID     uint   `gorm:"not null;index"`
	Author     User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (c *Client) CreatePost(ctx context.Context, post *Post) error {
	if post.ImageFile == "" {
		post.ImageFile = DefaultImage
	}
	if err := c.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		log.Error("failed to create post", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetPost(ctx context.Context, id uint) (*Post, error) {
	var post Post
	if err := c.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get post", "error", err)
		}
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, post *Post) error {
	return c.db.WithContext(ctx).Model(post).Select("Title", "Content", "ImageFile").Updates(post).Error
}

func (c *Client) DeletePost(ctx context.Context, id uint) error {
	res := c.db.WithContext(ctx).Delete(&Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAllPosts removes every post and returns how many were removed.
func (c *Client) DeleteAllPosts(ctx context.Context) (int64, error) {
	res := c.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Post{})
	return res.RowsAffected, res.Error
}

// LatestPosts returns the newest posts first.
func (c *Client) LatestPosts(ctx context.Context, limit int) ([]Post, error) {
	var posts []Post
	err := c.db.WithContext(ctx).
		Preload("Author").
		Order("date_posted DESC").
		Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ListPosts returns one page of posts, newest first.
func (c *Client) ListPosts(ctx context.Context, page, perPage int) (*Page[Post], error) {
	page, perPage = normalizePage(page, perPage)

	var total int64
	if err := c.db.WithContext(ctx).Model(&Post{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []Post
	err := c.db.WithContext(ctx).
		Preload("Author").
		Order("date_posted DESC").
		Order("id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &Page[Post]{Items: posts, Page: page, PerPage: perPage, Total: total}, nil
}
