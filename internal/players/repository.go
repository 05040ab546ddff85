package players

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/scoutlens/scoutlens/internal/dberr"
)

// ErrBadOrder rejects List calls with an order key outside the supported
// set (name, created_at, scout_rating).
var ErrBadOrder = errors.New("unsupported order")

const playerCols = `id, external_id, team_id, name, nationality, date_of_birth,
	position, secondary_positions, preferred_foot, club_number, height, weight,
	current_club, scout_rating, transfermarkt_url, photo_path, notes, tags,
	created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (Player, error) {
	var p Player
	var secondary, tags string
	err := row.Scan(
		&p.ID, &p.ExternalID, &p.TeamID, &p.Name, &p.Nationality, &p.DateOfBirth,
		&p.Position, &secondary, &p.PreferredFoot, &p.ClubNumber, &p.Height, &p.Weight,
		&p.CurrentClub, &p.ScoutRating, &p.TransfermarktURL, &p.PhotoPath, &p.Notes, &tags,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Player{}, err
	}
	p.SecondaryPositions = decodeList(secondary)
	p.Tags = decodeList(tags)
	return p, nil
}

func (r *Repository) Create(ctx context.Context, p Player) (Player, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO players (id, external_id, team_id, name, nationality, date_of_birth,
			position, secondary_positions, preferred_foot, club_number, height, weight,
			current_club, scout_rating, transfermarkt_url, photo_path, notes, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ExternalID, p.TeamID, p.Name, p.Nationality, p.DateOfBirth,
		p.Position, encodeList(p.SecondaryPositions), p.PreferredFoot, p.ClubNumber, p.Height, p.Weight,
		p.CurrentClub, p.ScoutRating, p.TransfermarktURL, p.PhotoPath, p.Notes, encodeList(p.Tags),
	)
	if err != nil {
		return Player{}, dberr.Wrap(err)
	}
	return r.Get(ctx, p.ID)
}

func (r *Repository) Get(ctx context.Context, id string) (Player, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+playerCols+` FROM players WHERE id = ?`, id)
	p, err := scanPlayer(row)
	if err != nil {
		return Player{}, dberr.Wrap(err)
	}
	return p, nil
}

// Filter narrows List. Query matches the name case-insensitively
// (ilike-style contains).
type Filter struct {
	TeamID string
	Query  string
	Order  string
	Limit  int
}

func (r *Repository) List(ctx context.Context, f Filter) ([]Player, error) {
	q := `SELECT ` + playerCols + ` FROM players`
	var conds []string
	var args []any
	if f.TeamID != "" {
		conds = append(conds, "team_id = ?")
		args = append(args, f.TeamID)
	}
	if f.Query != "" {
		conds = append(conds, "name LIKE ? COLLATE NOCASE")
		args = append(args, "%"+f.Query+"%")
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	switch f.Order {
	case "", "name":
		q += " ORDER BY name"
	case "created_at":
		q += " ORDER BY created_at DESC"
	case "scout_rating":
		q += " ORDER BY scout_rating DESC"
	default:
		return nil, fmt.Errorf("%w %q", ErrBadOrder, f.Order)
	}
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateParams carries partial edits; nil fields keep the stored value.
// Clearable references (team, external id) use the Set* flags so callers can
// distinguish "leave alone" from "clear".
type UpdateParams struct {
	Name               *string
	ExternalID         *string
	SetExternalID      bool
	TeamID             *string
	SetTeamID          bool
	Nationality        *string
	DateOfBirth        *string
	Position           *string
	SecondaryPositions []string
	PreferredFoot      *string
	ClubNumber         *int64
	Height             *int64
	Weight             *int64
	CurrentClub        *string
	ScoutRating        *int64
	TransfermarktURL   *string
	PhotoPath          *string
	Notes              *string
	Tags               []string
}

func (r *Repository) Update(ctx context.Context, id string, u UpdateParams) (Player, error) {
	cur, err := r.Get(ctx, id)
	if err != nil {
		return Player{}, err
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		cur.Name = strings.TrimSpace(*u.Name)
	}
	if u.SetExternalID {
		cur.ExternalID = u.ExternalID
	}
	if u.SetTeamID {
		cur.TeamID = u.TeamID
	}
	if u.Nationality != nil {
		cur.Nationality = u.Nationality
	}
	if u.DateOfBirth != nil {
		cur.DateOfBirth = u.DateOfBirth
	}
	if u.Position != nil {
		cur.Position = u.Position
	}
	if u.SecondaryPositions != nil {
		cur.SecondaryPositions = u.SecondaryPositions
	}
	if u.PreferredFoot != nil {
		cur.PreferredFoot = u.PreferredFoot
	}
	if u.ClubNumber != nil {
		cur.ClubNumber = u.ClubNumber
	}
	if u.Height != nil {
		cur.Height = u.Height
	}
	if u.Weight != nil {
		cur.Weight = u.Weight
	}
	if u.CurrentClub != nil {
		cur.CurrentClub = u.CurrentClub
	}
	if u.ScoutRating != nil {
		cur.ScoutRating = u.ScoutRating
	}
	if u.TransfermarktURL != nil {
		cur.TransfermarktURL = u.TransfermarktURL
	}
	if u.PhotoPath != nil {
		cur.PhotoPath = u.PhotoPath
	}
	if u.Notes != nil {
		cur.Notes = u.Notes
	}
	if u.Tags != nil {
		cur.Tags = u.Tags
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE players SET external_id = ?, team_id = ?, name = ?, nationality = ?,
			date_of_birth = ?, position = ?, secondary_positions = ?, preferred_foot = ?,
			club_number = ?, height = ?, weight = ?, current_club = ?, scout_rating = ?,
			transfermarkt_url = ?, photo_path = ?, notes = ?, tags = ?
		WHERE id = ?`,
		cur.ExternalID, cur.TeamID, cur.Name, cur.Nationality,
		cur.DateOfBirth, cur.Position, encodeList(cur.SecondaryPositions), cur.PreferredFoot,
		cur.ClubNumber, cur.Height, cur.Weight, cur.CurrentClub, cur.ScoutRating,
		cur.TransfermarktURL, cur.PhotoPath, cur.Notes, encodeList(cur.Tags),
		id,
	)
	if err != nil {
		return Player{}, dberr.Wrap(err)
	}
	return r.Get(ctx, id)
}

// Delete removes a player and, through the declared cascades, every
// dependent report, note, shortlist membership and match target.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return dberr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
