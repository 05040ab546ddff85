package reports

import (
	"context"
	"database/sql"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scoutlens/scoutlens/internal/dberr"
)

const reportCols = `id, player_id, match_id, report_date, title, competition,
	opponent, location, position_played, minutes, rating, attributes, tags,
	kickoff_at, created_at, updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var r Report
	var attrs, tags string
	err := row.Scan(&r.ID, &r.PlayerID, &r.MatchID, &r.ReportDate, &r.Title, &r.Competition,
		&r.Opponent, &r.Location, &r.PositionPlayed, &r.Minutes, &r.Rating, &attrs, &tags,
		&r.KickoffAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return Report{}, err
	}
	r.Attributes = decodeAttrs(attrs)
	r.Tags = decodeTags(tags)
	return r, nil
}

func roundRating(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := math.Round(*p*10) / 10
	return &v
}

type CreateParams struct {
	PlayerID       string
	MatchID        *string
	ReportDate     string
	Title          *string
	Competition    *string
	Opponent       *string
	Location       *string
	PositionPlayed *string
	Minutes        *int64
	Rating         *float64
	Attributes     map[string]any
	Tags           []string
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Report, error) {
	id := uuid.NewString()
	if p.ReportDate == "" {
		p.ReportDate = time.Now().UTC().Format("2006-01-02")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scout_reports (id, player_id, match_id, report_date, title,
			competition, opponent, location, position_played, minutes, rating,
			attributes, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.PlayerID, p.MatchID, p.ReportDate, p.Title,
		p.Competition, p.Opponent, p.Location, p.PositionPlayed, p.Minutes, roundRating(p.Rating),
		encodeAttrs(p.Attributes), encodeTags(p.Tags),
	)
	if err != nil {
		return Report{}, dberr.Wrap(err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Get(ctx context.Context, id string) (Report, error) {
	rep, err := scanReport(r.db.QueryRowContext(ctx,
		`SELECT `+reportCols+` FROM reports WHERE id = ?`, id))
	if err != nil {
		return Report{}, dberr.Wrap(err)
	}
	return rep, nil
}

type Filter struct {
	PlayerID string
	MatchID  string
	Limit    int
}

func (r *Repository) List(ctx context.Context, f Filter) ([]Report, error) {
	q := `SELECT ` + reportCols + ` FROM reports`
	var conds []string
	var args []any
	if f.PlayerID != "" {
		conds = append(conds, "player_id = ?")
		args = append(args, f.PlayerID)
	}
	if f.MatchID != "" {
		conds = append(conds, "match_id = ?")
		args = append(args, f.MatchID)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY report_date DESC, created_at DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// UpdateParams: nil keeps stored values. The update builds its SET clause
// from the provided fields only, so an edit never copies the coalesced view
// title back into the canonical column.
type UpdateParams struct {
	MatchID        *string
	SetMatchID     bool
	ReportDate     *string
	Title          *string
	Competition    *string
	Opponent       *string
	Location       *string
	PositionPlayed *string
	Minutes        *int64
	Rating         *float64
	Attributes     map[string]any
	Tags           []string
}

func (r *Repository) Update(ctx context.Context, id string, u UpdateParams) (Report, error) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.SetMatchID {
		add("match_id", u.MatchID)
	}
	if u.ReportDate != nil && *u.ReportDate != "" {
		add("report_date", *u.ReportDate)
	}
	if u.Title != nil {
		add("title", u.Title)
	}
	if u.Competition != nil {
		add("competition", u.Competition)
	}
	if u.Opponent != nil {
		add("opponent", u.Opponent)
	}
	if u.Location != nil {
		add("location", u.Location)
	}
	if u.PositionPlayed != nil {
		add("position_played", u.PositionPlayed)
	}
	if u.Minutes != nil {
		add("minutes", u.Minutes)
	}
	if u.Rating != nil {
		add("rating", roundRating(u.Rating))
	}
	if u.Attributes != nil {
		add("attributes", encodeAttrs(u.Attributes))
	}
	if u.Tags != nil {
		add("tags", encodeTags(u.Tags))
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		`UPDATE scout_reports SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return Report{}, dberr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Report{}, dberr.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scout_reports WHERE id = ?`, id)
	if err != nil {
		return dberr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// CountsByPlayer reads the report_counts_by_player aggregate. Players with
// no reports are absent, not zero rows.
func (r *Repository) CountsByPlayer(ctx context.Context) ([]PlayerReportCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT player_id, report_count FROM report_counts_by_player ORDER BY report_count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PlayerReportCount, 0)
	for rows.Next() {
		var c PlayerReportCount
		if err := rows.Scan(&c.PlayerID, &c.ReportCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
