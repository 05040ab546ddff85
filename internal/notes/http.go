package notes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scoutlens/scoutlens/internal/api"
)

func RegisterRoutes(r *gin.Engine, repo *Repository, protect gin.HandlerFunc) {
	g := r.Group("/api")

	g.GET("/players/:id/quick-notes", func(c *gin.Context) {
		list, err := repo.ListByPlayer(c.Request.Context(), c.Param("id"))
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.POST("/players/:id/quick-notes", api.Protect(protect, func(c *gin.Context) {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		req.Content = strings.TrimSpace(req.Content)
		if req.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "note is empty"})
			return
		}
		n, err := repo.Add(c.Request.Context(), c.Param("id"), req.Content)
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, n)
	}))

	g.GET("/quick-notes/counts", func(c *gin.Context) {
		counts, err := repo.Counts(c.Request.Context())
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, counts)
	})

	g.PATCH("/quick-notes/:id", api.Protect(protect, func(c *gin.Context) {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		req.Content = strings.TrimSpace(req.Content)
		if req.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "note is empty"})
			return
		}
		n, err := repo.UpdateContent(c.Request.Context(), c.Param("id"), req.Content)
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, n)
	}))

	g.DELETE("/quick-notes/:id", api.Protect(protect, func(c *gin.Context) {
		if err := repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
			api.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}))

	// ---- tagged notes ----

	g.GET("/notes", func(c *gin.Context) {
		list, err := repo.Search(c.Request.Context(), NoteFilter{
			PlayerID: c.Query("player_id"),
			Query:    c.Query("q"),
			Tag:      c.Query("tag"),
			Oldest:   c.Query("sort") == "oldest",
		})
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.GET("/players/:id/notes", func(c *gin.Context) {
		list, err := repo.Search(c.Request.Context(), NoteFilter{PlayerID: c.Param("id")})
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.POST("/players/:id/notes", api.Protect(protect, func(c *gin.Context) {
		var req struct {
			Content string   `json:"content"`
			Tags    []string `json:"tags"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		req.Content = strings.TrimSpace(req.Content)
		if req.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "note is empty"})
			return
		}
		n, err := repo.AddNote(c.Request.Context(), c.Param("id"), req.Content, req.Tags)
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, n)
	}))

	g.PATCH("/notes/:id", api.Protect(protect, func(c *gin.Context) {
		var req struct {
			Content *string  `json:"content"`
			Tags    []string `json:"tags"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		if req.Content != nil {
			trimmed := strings.TrimSpace(*req.Content)
			if trimmed == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "note is empty"})
				return
			}
			req.Content = &trimmed
		}
		n, err := repo.UpdateNote(c.Request.Context(), c.Param("id"), req.Content, req.Tags)
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, n)
	}))

	g.DELETE("/notes/:id", api.Protect(protect, func(c *gin.Context) {
		if err := repo.DeleteNote(c.Request.Context(), c.Param("id")); err != nil {
			api.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}))
}
