package teams

import "time"

type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Country   *string   `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}
