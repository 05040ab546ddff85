package matches

import "time"

// KickoffAt and EndsAtUTC are RFC3339 strings; the original records kept
// wall-clock ISO text plus the tz name rather than normalized instants.
type Match struct {
	ID          string    `json:"id"`
	HomeTeam    *string   `json:"home_team"`
	AwayTeam    *string   `json:"away_team"`
	Competition *string   `json:"competition"`
	Location    *string   `json:"location"`
	Venue       *string   `json:"venue"`
	Country     *string   `json:"country"`
	TzName      *string   `json:"tz_name"`
	KickoffAt   string    `json:"kickoff_at"`
	EndsAtUTC   *string   `json:"ends_at_utc"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Target marks a player the scout intends to watch at a match.
type Target struct {
	ID         string    `json:"id"`
	MatchID    string    `json:"match_id"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	CreatedAt  time.Time `json:"created_at"`
}
