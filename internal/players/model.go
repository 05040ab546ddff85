package players

import (
	"encoding/json"
	"time"
)

type Player struct {
	ID                 string    `json:"id"`
	ExternalID         *string   `json:"external_id"`
	TeamID             *string   `json:"team_id"`
	Name               string    `json:"name"`
	Nationality        *string   `json:"nationality"`
	DateOfBirth        *string   `json:"date_of_birth"`
	Position           *string   `json:"position"`
	SecondaryPositions []string  `json:"secondary_positions"`
	PreferredFoot      *string   `json:"preferred_foot"`
	ClubNumber         *int64    `json:"club_number"`
	Height             *int64    `json:"height"`
	Weight             *int64    `json:"weight"`
	CurrentClub        *string   `json:"current_club"`
	ScoutRating        *int64    `json:"scout_rating"`
	TransfermarktURL   *string   `json:"transfermarkt_url"`
	PhotoPath          *string   `json:"photo_path"`
	Notes              *string   `json:"notes"`
	Tags               []string  `json:"tags"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// encodeList / decodeList map []string to the JSON text columns
// (secondary_positions, tags). Empty slices round-trip as "[]".
func encodeList(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeList(s string) []string {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
