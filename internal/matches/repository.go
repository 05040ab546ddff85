package matches

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/scoutlens/scoutlens/internal/dberr"
)

const matchCols = `id, home_team, away_team, competition, location, venue,
	country, tz_name, kickoff_at, ends_at_utc, notes, created_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (Match, error) {
	var m Match
	err := row.Scan(&m.ID, &m.HomeTeam, &m.AwayTeam, &m.Competition, &m.Location,
		&m.Venue, &m.Country, &m.TzName, &m.KickoffAt, &m.EndsAtUTC, &m.Notes, &m.CreatedAt)
	return m, err
}

func (r *Repository) Create(ctx context.Context, m Match) (Match, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO matches (id, home_team, away_team, competition, location, venue,
			country, tz_name, kickoff_at, ends_at_utc, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.HomeTeam, m.AwayTeam, m.Competition, m.Location, m.Venue,
		m.Country, m.TzName, m.KickoffAt, m.EndsAtUTC, m.Notes,
	)
	if err != nil {
		return Match{}, dberr.Wrap(err)
	}
	return r.Get(ctx, m.ID)
}

func (r *Repository) Get(ctx context.Context, id string) (Match, error) {
	m, err := scanMatch(r.db.QueryRowContext(ctx,
		`SELECT `+matchCols+` FROM matches WHERE id = ?`, id))
	if err != nil {
		return Match{}, dberr.Wrap(err)
	}
	return m, nil
}

// List returns matches newest kickoff first, optionally clamped to a
// [from, until] kickoff window (RFC3339 strings compare lexically).
func (r *Repository) List(ctx context.Context, from, until string) ([]Match, error) {
	q := `SELECT ` + matchCols + ` FROM matches`
	var conds []string
	var args []any
	if from != "" {
		conds = append(conds, "kickoff_at >= ?")
		args = append(args, from)
	}
	if until != "" {
		conds = append(conds, "kickoff_at <= ?")
		args = append(args, until)
	}
	for i, cond := range conds {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY kickoff_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateParams: nil keeps the stored value; KickoffAt must stay non-empty.
type UpdateParams struct {
	HomeTeam    *string
	AwayTeam    *string
	Competition *string
	Location    *string
	Venue       *string
	Country     *string
	TzName      *string
	KickoffAt   *string
	EndsAtUTC   *string
	Notes       *string
}

func (r *Repository) Update(ctx context.Context, id string, u UpdateParams) (Match, error) {
	cur, err := r.Get(ctx, id)
	if err != nil {
		return Match{}, err
	}
	if u.HomeTeam != nil {
		cur.HomeTeam = u.HomeTeam
	}
	if u.AwayTeam != nil {
		cur.AwayTeam = u.AwayTeam
	}
	if u.Competition != nil {
		cur.Competition = u.Competition
	}
	if u.Location != nil {
		cur.Location = u.Location
	}
	if u.Venue != nil {
		cur.Venue = u.Venue
	}
	if u.Country != nil {
		cur.Country = u.Country
	}
	if u.TzName != nil {
		cur.TzName = u.TzName
	}
	if u.KickoffAt != nil && *u.KickoffAt != "" {
		cur.KickoffAt = *u.KickoffAt
	}
	if u.EndsAtUTC != nil {
		cur.EndsAtUTC = u.EndsAtUTC
	}
	if u.Notes != nil {
		cur.Notes = u.Notes
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE matches SET home_team = ?, away_team = ?, competition = ?, location = ?,
			venue = ?, country = ?, tz_name = ?, kickoff_at = ?, ends_at_utc = ?, notes = ?
		WHERE id = ?`,
		cur.HomeTeam, cur.AwayTeam, cur.Competition, cur.Location,
		cur.Venue, cur.Country, cur.TzName, cur.KickoffAt, cur.EndsAtUTC, cur.Notes,
		id,
	)
	if err != nil {
		return Match{}, dberr.Wrap(err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return dberr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// ---- targets ----

func (r *Repository) ListTargets(ctx context.Context, matchID string) ([]Target, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.match_id, t.player_id, p.name, t.created_at
		FROM match_targets t
		JOIN players p ON p.id = t.player_id
		WHERE t.match_id = ?
		ORDER BY p.name`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Target, 0)
	for rows.Next() {
		var t Target
		if err := rows.Scan(&t.ID, &t.MatchID, &t.PlayerID, &t.PlayerName, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) AddTarget(ctx context.Context, matchID, playerID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO match_targets (id, match_id, player_id) VALUES (?, ?, ?)`,
		uuid.NewString(), matchID, playerID)
	return dberr.Wrap(err)
}

// ReplaceTargets swaps the full target set in one transaction so concurrent
// readers never observe a half-replaced list.
func (r *Repository) ReplaceTargets(ctx context.Context, matchID string, playerIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM match_targets WHERE match_id = ?`, matchID); err != nil {
		return dberr.Wrap(err)
	}
	for _, pid := range playerIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO match_targets (id, match_id, player_id) VALUES (?, ?, ?)`,
			uuid.NewString(), matchID, pid); err != nil {
			return dberr.Wrap(err)
		}
	}
	return tx.Commit()
}

func (r *Repository) RemoveTarget(ctx context.Context, matchID, playerID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM match_targets WHERE match_id = ? AND player_id = ?`, matchID, playerID)
	if err != nil {
		return dberr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
