package matches

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scoutlens/scoutlens/internal/api"
)

type createOrUpdateReq struct {
	HomeTeam    *string `json:"home_team"`
	AwayTeam    *string `json:"away_team"`
	Competition *string `json:"competition"`
	Location    *string `json:"location"`
	Venue       *string `json:"venue"`
	Country     *string `json:"country"`
	TzName      *string `json:"tz_name"`
	KickoffAt   *string `json:"kickoff_at"`
	EndsAtUTC   *string `json:"ends_at_utc"`
	Notes       *string `json:"notes"`
}

func RegisterRoutes(r *gin.Engine, repo *Repository, protect gin.HandlerFunc) {
	g := r.Group("/api")

	g.GET("/matches", func(c *gin.Context) {
		list, err := repo.List(c.Request.Context(), c.Query("from"), c.Query("until"))
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.GET("/matches.csv", func(c *gin.Context) {
		list, err := repo.List(c.Request.Context(), "", "")
		if err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		writeCSV(c, list)
	})

	g.GET("/matches.ics", func(c *gin.Context) {
		list, err := repo.List(c.Request.Context(), "", "")
		if err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		writeICS(c, list)
	})

	g.GET("/matches/:id", func(c *gin.Context) {
		m, err := repo.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	})

	g.POST("/matches", api.Protect(protect, func(c *gin.Context) {
		var req createOrUpdateReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		if req.KickoffAt == nil || *req.KickoffAt == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kickoff_at is required"})
			return
		}
		m, err := repo.Create(c.Request.Context(), Match{
			HomeTeam:    req.HomeTeam,
			AwayTeam:    req.AwayTeam,
			Competition: req.Competition,
			Location:    req.Location,
			Venue:       req.Venue,
			Country:     req.Country,
			TzName:      req.TzName,
			KickoffAt:   *req.KickoffAt,
			EndsAtUTC:   req.EndsAtUTC,
			Notes:       req.Notes,
		})
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, m)
	}))

	g.PATCH("/matches/:id", api.Protect(protect, func(c *gin.Context) {
		var req createOrUpdateReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		m, err := repo.Update(c.Request.Context(), c.Param("id"), UpdateParams{
			HomeTeam:    req.HomeTeam,
			AwayTeam:    req.AwayTeam,
			Competition: req.Competition,
			Location:    req.Location,
			Venue:       req.Venue,
			Country:     req.Country,
			TzName:      req.TzName,
			KickoffAt:   req.KickoffAt,
			EndsAtUTC:   req.EndsAtUTC,
			Notes:       req.Notes,
		})
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}))

	g.DELETE("/matches/:id", api.Protect(protect, func(c *gin.Context) {
		if err := repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
			api.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}))

	// ---- targets ----

	g.GET("/matches/:id/targets", func(c *gin.Context) {
		// 404 for an unknown match rather than an empty list.
		if _, err := repo.Get(c.Request.Context(), c.Param("id")); err != nil {
			api.Error(c, err)
			return
		}
		list, err := repo.ListTargets(c.Request.Context(), c.Param("id"))
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.POST("/matches/:id/targets", api.Protect(protect, func(c *gin.Context) {
		var req struct {
			PlayerID string `json:"player_id"`
		}
		if err := c.BindJSON(&req); err != nil || req.PlayerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_id is required"})
			return
		}
		if err := repo.AddTarget(c.Request.Context(), c.Param("id"), req.PlayerID); err != nil {
			api.Error(c, err)
			return
		}
		c.Status(http.StatusCreated)
	}))

	g.PUT("/matches/:id/targets", api.Protect(protect, func(c *gin.Context) {
		var req struct {
			PlayerIDs []string `json:"player_ids"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		if err := repo.ReplaceTargets(c.Request.Context(), c.Param("id"), req.PlayerIDs); err != nil {
			api.Error(c, err)
			return
		}
		list, err := repo.ListTargets(c.Request.Context(), c.Param("id"))
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}))

	g.DELETE("/matches/:id/targets/:playerID", api.Protect(protect, func(c *gin.Context) {
		if err := repo.RemoveTarget(c.Request.Context(), c.Param("id"), c.Param("playerID")); err != nil {
			api.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}))
}
