package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"redditradar/internal/models"
	"redditradar/internal/store"
)

type CategoryHandler struct {
	store store.Store
}

func NewCategoryHandler(st store.Store) *CategoryHandler {
	return &CategoryHandler{store: st}
}

// List handles GET /api/categories: the seeded taxonomy plus any custom
// categories added lazily by classifier output.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.store.ListCategories()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list categories", err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, categories)
}
