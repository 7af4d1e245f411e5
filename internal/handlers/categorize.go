package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"redditradar/internal/services"
)

type CategorizeHandler struct {
	classifier services.Classifier
}

func NewCategorizeHandler(classifier services.Classifier) *CategorizeHandler {
	return &CategorizeHandler{classifier: classifier}
}

type categorizeRequest struct {
	Title string `json:"title"`
	// Pointer so that an empty selftext is allowed but an absent field is
	// rejected.
	Content *string `json:"content"`
}

// Categorize handles POST /api/categorize with {title, content}.
func (h *CategorizeHandler) Categorize(c *gin.Context) {
	var req categorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Missing title or content", nil)
		return
	}
	if req.Title == "" || req.Content == nil {
		respondError(c, http.StatusBadRequest, "Missing title or content", nil)
		return
	}

	categories, err := h.classifier.Categorize(c.Request.Context(), req.Title, *req.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to categorize post", err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
