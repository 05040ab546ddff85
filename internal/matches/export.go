package matches

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func sval(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeCSV(c *gin.Context, list []Match) {
	filename := fmt.Sprintf("matches_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{
		"id", "home_team", "away_team", "competition", "location",
		"venue", "country", "tz_name", "kickoff_at", "ends_at_utc", "notes",
	})
	for _, m := range list {
		_ = w.Write([]string{
			m.ID, sval(m.HomeTeam), sval(m.AwayTeam), sval(m.Competition), sval(m.Location),
			sval(m.Venue), sval(m.Country), sval(m.TzName), m.KickoffAt, sval(m.EndsAtUTC), sval(m.Notes),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func writeICS(c *gin.Context, list []Match) {
	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=matches.ics")

	w := c.Writer
	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintln(w, "PRODID:-//scoutlens//EN")
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")

	now := time.Now().UTC().Format("20060102T150405Z")
	// Escape commas and semicolons per RFC 5545.
	esc := func(s string) string {
		return strings.NewReplacer(",", "\\,", ";", "\\;", "\n", "\\n").Replace(s)
	}

	for _, m := range list {
		var dtStart, dtEnd string
		if t, err := time.Parse(time.RFC3339, m.KickoffAt); err == nil {
			dtStart = t.UTC().Format("20060102T150405Z")
		}
		if m.EndsAtUTC != nil && *m.EndsAtUTC != "" {
			if t, err := time.Parse(time.RFC3339, *m.EndsAtUTC); err == nil {
				dtEnd = t.UTC().Format("20060102T150405Z")
			}
		}

		home, away := sval(m.HomeTeam), sval(m.AwayTeam)
		summary := "Match"
		if home != "" || away != "" {
			summary = fmt.Sprintf("%s vs %s", home, away)
		}
		locStr := sval(m.Venue)
		if country := sval(m.Country); country != "" {
			if locStr != "" {
				locStr += ", "
			}
			locStr += country
		}

		fmt.Fprintln(w, "BEGIN:VEVENT")
		fmt.Fprintf(w, "UID:match-%s@scoutlens\n", m.ID)
		fmt.Fprintf(w, "DTSTAMP:%s\n", now)
		if dtStart != "" {
			fmt.Fprintf(w, "DTSTART:%s\n", dtStart)
		}
		if dtEnd != "" {
			fmt.Fprintf(w, "DTEND:%s\n", dtEnd)
		}
		fmt.Fprintf(w, "SUMMARY:%s\n", esc(summary))
		if locStr != "" {
			fmt.Fprintf(w, "LOCATION:%s\n", esc(locStr))
		}
		if n := sval(m.Notes); n != "" {
			fmt.Fprintf(w, "DESCRIPTION:%s\n", esc(n))
		}
		fmt.Fprintln(w, "END:VEVENT")
	}

	fmt.Fprintln(w, "END:VCALENDAR")
}
