package players

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scoutlens/scoutlens/internal/api"
)

type createReq struct {
	Name               string   `json:"name"`
	ExternalID         *string  `json:"external_id"`
	TeamID             *string  `json:"team_id"`
	Nationality        *string  `json:"nationality"`
	DateOfBirth        *string  `json:"date_of_birth"`
	Position           *string  `json:"position"`
	SecondaryPositions []string `json:"secondary_positions"`
	PreferredFoot      *string  `json:"preferred_foot"`
	ClubNumber         *int64   `json:"club_number"`
	Height             *int64   `json:"height"`
	Weight             *int64   `json:"weight"`
	CurrentClub        *string  `json:"current_club"`
	ScoutRating        *int64   `json:"scout_rating"`
	TransfermarktURL   *string  `json:"transfermarkt_url"`
	PhotoPath          *string  `json:"photo_path"`
	Notes              *string  `json:"notes"`
	Tags               []string `json:"tags"`
}

type updateReq struct {
	Name               *string  `json:"name"`
	ExternalID         *string  `json:"external_id"`
	TeamID             *string  `json:"team_id"`
	Nationality        *string  `json:"nationality"`
	DateOfBirth        *string  `json:"date_of_birth"`
	Position           *string  `json:"position"`
	SecondaryPositions []string `json:"secondary_positions"`
	PreferredFoot      *string  `json:"preferred_foot"`
	ClubNumber         *int64   `json:"club_number"`
	Height             *int64   `json:"height"`
	Weight             *int64   `json:"weight"`
	CurrentClub        *string  `json:"current_club"`
	ScoutRating        *int64   `json:"scout_rating"`
	TransfermarktURL   *string  `json:"transfermarkt_url"`
	PhotoPath          *string  `json:"photo_path"`
	Notes              *string  `json:"notes"`
	Tags               []string `json:"tags"`
}

func RegisterRoutes(r *gin.Engine, repo *Repository, protect gin.HandlerFunc) {
	g := r.Group("/api")

	g.GET("/players", func(c *gin.Context) {
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
			TeamID: c.Query("team_id"),
			Query:  c.Query("q"),
			Order:  c.Query("order"),
			Limit:  limit,
		})
		if err != nil {
			if errors.Is(err, ErrBadOrder) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.GET("/players/:id", func(c *gin.Context) {
		p, err := repo.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	g.POST("/players", api.Protect(protect, func(c *gin.Context) {
		var req createReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player name is empty"})
			return
		}
		p, err := repo.Create(c.Request.Context(), Player{
			Name:               req.Name,
			ExternalID:         req.ExternalID,
			TeamID:             req.TeamID,
			Nationality:        req.Nationality,
			DateOfBirth:        req.DateOfBirth,
			Position:           req.Position,
			SecondaryPositions: req.SecondaryPositions,
			PreferredFoot:      req.PreferredFoot,
			ClubNumber:         req.ClubNumber,
			Height:             req.Height,
			Weight:             req.Weight,
			CurrentClub:        req.CurrentClub,
			ScoutRating:        req.ScoutRating,
			TransfermarktURL:   req.TransfermarktURL,
			PhotoPath:          req.PhotoPath,
			Notes:              req.Notes,
			Tags:               req.Tags,
		})
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}))

	g.PATCH("/players/:id", api.Protect(protect, func(c *gin.Context) {
		var req updateReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
			return
		}
		u := UpdateParams{
			Name:               req.Name,
			Nationality:        req.Nationality,
			DateOfBirth:        req.DateOfBirth,
			Position:           req.Position,
			SecondaryPositions: req.SecondaryPositions,
			PreferredFoot:      req.PreferredFoot,
			ClubNumber:         req.ClubNumber,
			Height:             req.Height,
			Weight:             req.Weight,
			CurrentClub:        req.CurrentClub,
			ScoutRating:        req.ScoutRating,
			TransfermarktURL:   req.TransfermarktURL,
			PhotoPath:          req.PhotoPath,
			Notes:              req.Notes,
			Tags:               req.Tags,
		}
		// Sending "" clears the reference, omitting keeps it.
		if req.TeamID != nil {
			u.SetTeamID = true
			if *req.TeamID != "" {
				u.TeamID = req.TeamID
			}
		}
		if req.ExternalID != nil {
			u.SetExternalID = true
			if *req.ExternalID != "" {
				u.ExternalID = req.ExternalID
			}
		}
		p, err := repo.Update(c.Request.Context(), c.Param("id"), u)
		if err != nil {
			api.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}))

	g.DELETE("/players/:id", api.Protect(protect, func(c *gin.Context) {
		if err := repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
			api.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}))

	// Bulk import from CSV or XLSX (multipart form, field "file").
	g.POST("/players/import", api.Protect(protect, func(c *gin.Context) {
		if err := c.Request.ParseMultipartForm(12 << 20); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multipart too large"})
			return
		}
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
			return
		}
		rows, err := parseImport(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		imported := 0
		var errs []string
		for idx, p := range rows {
			if _, err := repo.Create(c.Request.Context(), p); err != nil {
				errs = append(errs, fmt.Sprintf("row %d: %v", idx+2, err))
			} else {
				imported++
			}
		}
		c.JSON(http.StatusOK, gin.H{"imported": imported, "failed": len(errs), "errors": errs})
	}))
}
