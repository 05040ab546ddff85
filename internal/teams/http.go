package teams

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scoutlens/scoutlens/internal/api"
)

type createOrUpdateReq struct {
	Name    *string `json:"name"`
	Country *string `json:"country"`
}

func RegisterRoutes(r *gin.Engine, repo *Repository, protect gin.HandlerFunc) {
	g := r.Group("/api")

	g.GET("/teams", func(c *gin.Context) {
		list, err := repo.List(c.Request.Context())
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.GET("/teams/:id", func(c *gin.Context) {
		t, err := repo.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	})

	g.POST("/teams", api.Protect(protect, func(c *gin.Context) {
		var req createOrUpdateReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		name := ""
		if req.Name != nil {
			name = strings.TrimSpace(*req.Name)
		}
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "team name is empty"})
			return
		}
		t, err := repo.Create(c.Request.Context(), name, req.Country)
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}))

	g.PATCH("/teams/:id", api.Protect(protect, func(c *gin.Context) {
		var req createOrUpdateReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		t, err := repo.Update(c.Request.Context(), c.Param("id"), req.Name, req.Country)
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}))

	g.DELETE("/teams/:id", api.Protect(protect, func(c *gin.Context) {
		if err := repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
			api.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}))
}
