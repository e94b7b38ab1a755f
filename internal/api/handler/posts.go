package handler

import (
	"fmt"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/auth"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/models"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/engine"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

func postPath(id uint) string {
	return fmt.Sprintf("/post/%d", id)
}

// postInput binds the post form and the optional image. done releases the upload.
func postInput(c *gin.Context) (in engine.PostInput, done func(), ok bool) {
	done = func() {}
	var form postForm
	if !bind(c, &form) {
		return in, done, false
	}
	img, f, err := formImage(c, "image")
	if err != nil {
		invalid(c, map[string]string{"image": "Could not read the uploaded file"})
		return in, done, false
	}
	if f != nil {
		done = func() {
			if err := f.Close(); err != nil {
				log.Warn("failed to close upload", "error", err)
			}
		}
	}
	return engine.PostInput{Title: form.Title, Content: form.Content, Image: img}, done, true
}

func (h *Handler) NewPostPage(c *gin.Context) {
	h.render(c, "post_form", nil)
}

func (h *Handler) CreatePost(c *gin.Context) {
	in, done, ok := postInput(c)
	defer done()
	if !ok {
		return
	}
	post, err := h.engine.CreatePost(c.Request.Context(), auth.CurrentUser(c), in)
	if err != nil {
		h.fail(c, err, "/posts/new")
		return
	}
	redirect(c, models.FlashSuccess, "Your post has been created!", postPath(post.ID))
}

func (h *Handler) EditPostPage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	post, err := h.engine.GetPost(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "/news")
		return
	}
	h.render(c, "post_form", gin.H{"post": h.convert.ToPost(*post)})
}

func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	in, done, ok := postInput(c)
	defer done()
	if !ok {
		return
	}
	if _, err := h.engine.UpdatePost(c.Request.Context(), id, in); err != nil {
		h.fail(c, err, postPath(id)+"/update")
		return
	}
	redirect(c, models.FlashSuccess, "Your post has been updated!", postPath(id))
}

func (h *Handler) DeletePost(c *gin.Context) {
	h.deletePost(c, "/news")
}

func (h *Handler) deletePost(c *gin.Context, back string) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.engine.DeletePost(c.Request.Context(), id); err != nil {
		h.fail(c, err, back)
		return
	}
	redirect(c, models.FlashSuccess, "The post has been deleted.", back)
}
