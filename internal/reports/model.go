package reports

import (
	"encoding/json"
	"time"
)

// Report is the stable read shape served by the reports view. Title and
// KickoffAt are already coalesced across schema generations there; writes go
// to the scout_reports base table.
type Report struct {
	ID             string         `json:"id"`
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
	KickoffAt      *string        `json:"kickoff_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// PlayerReportCount is one row of the report_counts_by_player aggregate.
// Players without reports have no row; absent means zero.
type PlayerReportCount struct {
	PlayerID    string `json:"player_id"`
	ReportCount int64  `json:"report_count"`
}

func encodeAttrs(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func decodeAttrs(s string) map[string]any {
	out := map[string]any{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return map[string]any{}
	}
	return out
}

func encodeTags(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeTags(s string) []string {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
