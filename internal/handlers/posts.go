package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"redditradar/internal/services"
)

// PostLister is the slice of the refresher the posts handler needs.
type PostLister interface {
	GetPostsForSubreddit(ctx context.Context, name string) ([]services.PostWithCategories, error)
}

type PostsHandler struct {
	refresher PostLister
}

func NewPostsHandler(refresher PostLister) *PostsHandler {
	return &PostsHandler{refresher: refresher}
}

// List handles GET /api/posts?subreddit=NAME. Serves cached posts while
// fresh, refreshing transparently otherwise.
func (h *PostsHandler) List(c *gin.Context) {
	subreddit := c.Query("subreddit")
	if subreddit == "" {
		respondError(c, http.StatusBadRequest, "Invalid subreddit", nil)
		return
	}

	posts, err := h.refresher.GetPostsForSubreddit(c.Request.Context(), subreddit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			respondError(c, http.StatusBadRequest, "Invalid subreddit", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to fetch posts", err)
		return
	}

	if posts == nil {
		posts = []services.PostWithCategories{}
	}
	c.JSON(http.StatusOK, posts)
}
