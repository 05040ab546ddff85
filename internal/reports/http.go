package reports

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scoutlens/scoutlens/internal/api"
)

type createReq struct {
	PlayerID       string         `json:"player_id"`
	MatchID        *string        `json:"match_id"`
	ReportDate     string         `json:"report_date"`
	Title          *string        `json:"title"`
	Competition    *string        `json:"competition"`
	Opponent       *string        `json:"opponent"`
	Location       *string        `json:"location"`
	PositionPlayed *string        `json:"position_played"`
	Minutes        *int64         `json:"minutes"`
	Rating         *float64       `json:"rating"`
	Attributes     map[string]any `json:"attributes"`
	Tags           []string       `json:"tags"`
}

type updateReq struct {
	MatchID        *string        `json:"match_id"`
	ReportDate     *string        `json:"report_date"`
	Title          *string        `json:"title"`
	Competition    *string        `json:"competition"`
	Opponent       *string        `json:"opponent"`
	Location       *string        `json:"location"`
	PositionPlayed *string        `json:"position_played"`
	Minutes        *int64         `json:"minutes"`
	Rating         *float64       `json:"rating"`
	Attributes     map[string]any `json:"attributes"`
	Tags           []string       `json:"tags"`
}

func badRating(p *float64) bool {
	return p != nil && (*p < 0.0 || *p > 10.0)
}

func RegisterRoutes(r *gin.Engine, repo *Repository, protect gin.HandlerFunc) {
	g := r.Group("/api")

	g.GET("/reports", func(c *gin.Context) {
		limit := 0
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "bad limit"})
				return
			}
			limit = n
		}
		list, err := repo.List(c.Request.Context(), Filter{
			PlayerID: c.Query("player_id"),
			MatchID:  c.Query("match_id"),
			Limit:    limit,
		})
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.GET("/reports.csv", func(c *gin.Context) {
		list, err := repo.List(c.Request.Context(), Filter{PlayerID: c.Query("player_id")})
		if err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		writeCSV(c, list)
	})

	g.GET("/reports/counts", func(c *gin.Context) {
		counts, err := repo.CountsByPlayer(c.Request.Context())
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, counts)
	})

	g.GET("/reports/:id", func(c *gin.Context) {
		rep, err := repo.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, rep)
	})

	g.POST("/reports", api.Protect(protect, func(c *gin.Context) {
		var req createReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		if req.PlayerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_id is required"})
			return
		}
		if badRating(req.Rating) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0.0 and 10.0"})
			return
		}
		rep, err := repo.Create(c.Request.Context(), CreateParams{
			PlayerID:       req.PlayerID,
			MatchID:        req.MatchID,
			ReportDate:     req.ReportDate,
			Title:          req.Title,
			Competition:    req.Competition,
			Opponent:       req.Opponent,
			Location:       req.Location,
			PositionPlayed: req.PositionPlayed,
			Minutes:        req.Minutes,
			Rating:         req.Rating,
			Attributes:     req.Attributes,
			Tags:           req.Tags,
		})
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, rep)
	}))

	g.PATCH("/reports/:id", api.Protect(protect, func(c *gin.Context) {
		var req updateReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		if badRating(req.Rating) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 0.0 and 10.0"})
			return
		}
		u := UpdateParams{
			ReportDate:     req.ReportDate,
			Title:          req.Title,
			Competition:    req.Competition,
			Opponent:       req.Opponent,
			Location:       req.Location,
			PositionPlayed: req.PositionPlayed,
			Minutes:        req.Minutes,
			Rating:         req.Rating,
			Attributes:     req.Attributes,
			Tags:           req.Tags,
		}
		if req.MatchID != nil {
			u.SetMatchID = true
			if *req.MatchID != "" {
				u.MatchID = req.MatchID
			}
		}
		rep, err := repo.Update(c.Request.Context(), c.Param("id"), u)
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, rep)
	}))

	g.DELETE("/reports/:id", api.Protect(protect, func(c *gin.Context) {
		if err := repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
			api.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}))
}

func writeCSV(c *gin.Context, list []Report) {
	filename := fmt.Sprintf("reports_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	sval := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{
		"id", "player_id", "match_id", "report_date", "title", "competition",
		"opponent", "location", "position_played", "minutes", "rating", "kickoff_at",
	})
	for _, rep := range list {
		minutes, rating := "", ""
		if rep.Minutes != nil {
			minutes = strconv.FormatInt(*rep.Minutes, 10)
		}
		if rep.Rating != nil {
			rating = strconv.FormatFloat(*rep.Rating, 'f', 1, 64)
		}
		_ = w.Write([]string{
			rep.ID, rep.PlayerID, sval(rep.MatchID), rep.ReportDate, sval(rep.Title), sval(rep.Competition),
			sval(rep.Opponent), sval(rep.Location), sval(rep.PositionPlayed), minutes, rating, sval(rep.KickoffAt),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
	}
}
