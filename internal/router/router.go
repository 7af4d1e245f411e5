package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"redditradar/internal/handlers"
	"redditradar/internal/services"
	"redditradar/internal/store"
)

// RegisterRoutes wires the JSON API onto the gin engine.
func RegisterRoutes(r *gin.Engine, st store.Store, refresher *services.RefreshService, classifier services.Classifier) {
	// Handlers
	postsHandler := handlers.NewPostsHandler(refresher)
	categorizeHandler := handlers.NewCategorizeHandler(classifier)
	subredditHandler := handlers.NewSubredditHandler(st)
	categoryHandler := handlers.NewCategoryHandler(st)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/posts", postsHandler.List)                  // cached-or-refreshed posts for a subreddit
		api.POST("/categorize", categorizeHandler.Categorize) // classify a single title/content pair
		api.GET("/subreddits", subredditHandler.List)         // tracked subreddits
		api.POST("/subreddits", subredditHandler.Create)      // track a new subreddit
		api.GET("/categories", categoryHandler.List)          // taxonomy plus custom categories
	}
}
