package notes

import (
	"encoding/json"
	"strings"
	"time"
)

// QuickNote is a short free-text observation attached to a player.
// updated_at refreshes automatically on every edit (trigger-maintained).
type QuickNote struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note is the longer-form tagged variant. Tags make notes searchable across
// the whole player pool.
type Note struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
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

// cleanTags splits a comma/semicolon list, trims, caps each tag at 24 runes
// and dedupes case-insensitively while keeping first-seen order.
func cleanTags(v []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(v))
	for _, raw := range v {
		for _, part := range strings.Split(strings.ReplaceAll(raw, ";", ","), ",") {
			t := strings.TrimSpace(part)
			if t == "" {
				continue
			}
			if r := []rune(t); len(r) > 24 {
				t = string(r[:24])
			}
			key := strings.ToLower(t)
			if !seen[key] {
				seen[key] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// PlayerNoteCount is one row of the quick_note_counts aggregate.
type PlayerNoteCount struct {
	PlayerID  string `json:"player_id"`
	NoteCount int64  `json:"note_count"`
}
