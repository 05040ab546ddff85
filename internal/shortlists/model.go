package shortlists

import "time"

type Shortlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ItemCount int64     `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is one player's membership in a shortlist. Position preserves the
// scout's manual ordering.
type Item struct {
	ID          string    `json:"id"`
	ShortlistID string    `json:"shortlist_id"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Position    int64     `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}
