package shortlists

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scoutlens/scoutlens/internal/api"
)

func RegisterRoutes(r *gin.Engine, repo *Repository, protect gin.HandlerFunc) {
	g := r.Group("/api")

	g.GET("/shortlists", func(c *gin.Context) {
		list, err := repo.List(c.Request.Context())
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.GET("/shortlists/:id", func(c *gin.Context) {
		s, err := repo.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	})

	g.POST("/shortlists", api.Protect(protect, func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shortlist name is empty"})
			return
		}
		s, err := repo.Create(c.Request.Context(), req.Name)
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, s)
	}))

	g.PATCH("/shortlists/:id", api.Protect(protect, func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shortlist name is empty"})
			return
		}
		s, err := repo.Rename(c.Request.Context(), c.Param("id"), req.Name)
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}))

	g.DELETE("/shortlists/:id", api.Protect(protect, func(c *gin.Context) {
		if err := repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
			api.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}))

	// ---- items ----

	g.GET("/shortlists/:id/items", func(c *gin.Context) {
		if _, err := repo.Get(c.Request.Context(), c.Param("id")); err != nil {
			api.Error(c, err)
			return
		}
		items, err := repo.ListItems(c.Request.Context(), c.Param("id"))
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	})

	g.POST("/shortlists/:id/items", api.Protect(protect, func(c *gin.Context) {
		var req struct {
			PlayerID string `json:"player_id"`
		}
		if err := c.BindJSON(&req); err != nil || req.PlayerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_id is required"})
			return
		}
		it, err := repo.AddItem(c.Request.Context(), c.Param("id"), req.PlayerID)
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, it)
	}))

	g.DELETE("/shortlists/:id/items/:playerID", api.Protect(protect, func(c *gin.Context) {
		if err := repo.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("playerID")); err != nil {
			api.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}))
}
