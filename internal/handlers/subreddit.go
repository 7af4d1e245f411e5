package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"redditradar/internal/models"
	"redditradar/internal/store"
)

type SubredditHandler struct {
	store store.Store
}

func NewSubredditHandler(st store.Store) *SubredditHandler {
	return &SubredditHandler{store: st}
}

// List handles GET /api/subreddits.
func (h *SubredditHandler) List(c *gin.Context) {
	subs, err := h.store.ListSubreddits()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list subreddits", err)
		return
	}
	if subs == nil {
		subs = []models.Subreddit{}
	}
	c.JSON(http.StatusOK, subs)
}

type createSubredditRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /api/subreddits. Tracking is idempotent: posting an
// already-tracked name returns the existing row.
func (h *SubredditHandler) Create(c *gin.Context) {
	var req createSubredditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid subreddit", nil)
		return
	}

	name := strings.TrimSpace(strings.TrimPrefix(req.Name, "r/"))
	if name == "" {
		respondError(c, http.StatusBadRequest, "Invalid subreddit", nil)
		return
	}

	existing, err := h.store.SubredditByName(name)
	if err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusInternalServerError, "Failed to track subreddit", err)
		return
	}

	sub := &models.Subreddit{Name: name, Description: req.Description}
	if err := h.store.CreateSubreddit(sub); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to track subreddit", err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}
