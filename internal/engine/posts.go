package engine

import (
	"context"
	"errors"
	"io"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/media"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/sanitize"
	"github.com/charmbracelet/log"
)

// Upload is an uploaded image file.
type Upload struct {
	Filename string
	Body     io.Reader
}

// PostInput holds the post form.
type PostInput struct {
	Title   string
	Content string
	Image   *Upload
}

func (e *Engine) saveImage(ctx context.Context, up *Upload, kind, field string) (string, error) {
	key, err := e.media.SaveImage(ctx, up.Body, up.Filename, kind)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) {
			return "", NewValidationError(field, "Only jpg and png images are allowed")
		}
		return "", err
	}
	return key, nil
}

// CreatePost publishes a post written by author.
func (e *Engine) CreatePost(ctx context.Context, author *database.User, in PostInput) (*database.Post, error) {
	post := &database.Post{
		Title:      sanitize.Text(in.Title),
		Content:    sanitize.Content(in.Content),
		DatePosted: e.clock(),
		UserID:     author.ID,
		ImageFile:  database.DefaultImage,
	}
	if post.Title == "" {
		return nil, NewValidationError("title", "This field is required")
	}
	if in.Image != nil {
		key, err := e.saveImage(ctx, in.Image, media.KindPost, "image")
		if err != nil {
			return nil, err
		}
		post.ImageFile = key
	}
	if err := e.db.CreatePost(ctx, post); err != nil {
		e.media.Delete(ctx, post.ImageFile)
		return nil, err
	}
	post.Author = *author
	log.Info("post created", "post", post.ID, "author", author.Username)
	return post, nil
}

// GetPost returns a single post with its author.
func (e *Engine) GetPost(ctx context.Context, id uint) (*database.Post, error) {
	post, err := e.db.GetPost(ctx, id)
	return post, storeError(err)
}

// UpdatePost edits a post. A new image replaces the old one.
func (e *Engine) UpdatePost(ctx context.Context, id uint, in PostInput) (*database.Post, error) {
	post, err := e.db.GetPost(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	post.Title = sanitize.Text(in.Title)
	post.Content = sanitize.Content(in.Content)
	if post.Title == "" {
		return nil, NewValidationError("title", "This field is required")
	}

	oldImage := post.ImageFile
	if in.Image != nil {
		key, err := e.saveImage(ctx, in.Image, media.KindPost, "image")
		if err != nil {
			return nil, err
		}
		post.ImageFile = key
	}
	if err := e.db.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	if post.ImageFile != oldImage {
		e.media.Delete(ctx, oldImage)
	}
	return post, nil
}

// DeletePost removes a post and its image.
func (e *Engine) DeletePost(ctx context.Context, id uint) error {
	post, err := e.db.GetPost(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if err := e.db.DeletePost(ctx, id); err != nil {
		return storeError(err)
	}
	e.media.Delete(ctx, post.ImageFile)
	log.Info("post deleted", "post", id)
	return nil
}

// ListPosts returns one page of posts, newest first.
func (e *Engine) ListPosts(ctx context.Context, page int) (*database.Page[database.Post], error) {
	return e.db.ListPosts(ctx, page, e.cfg.PostsPerPage)
}
