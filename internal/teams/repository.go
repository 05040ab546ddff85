package teams

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/scoutlens/scoutlens/internal/dberr"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

func (r *Repository) Create(ctx context.Context, name string, country *string) (Team, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO teams (id, name, country) VALUES (?, ?, ?)
		 RETURNING id, name, country, created_at`,
		uuid.NewString(), name, country,
	)
	var t Team
	if err := row.Scan(&t.ID, &t.Name, &t.Country, &t.CreatedAt); err != nil {
		return Team{}, dberr.Wrap(err)
	}
	return t, nil
}

func (r *Repository) Get(ctx context.Context, id string) (Team, error) {
	var t Team
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, country, created_at FROM teams WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Country, &t.CreatedAt)
	if err != nil {
		return Team{}, dberr.Wrap(err)
	}
	return t, nil
}

func (r *Repository) List(ctx context.Context) ([]Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, country, created_at FROM teams ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Team, 0)
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Country, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id string, name *string, country *string) (Team, error) {
	cur, err := r.Get(ctx, id)
	if err != nil {
		return Team{}, err
	}
	if name != nil {
		cur.Name = *name
	}
	if country != nil {
		cur.Country = country
	}
	_, err = r.db.ExecContext(ctx, `UPDATE teams SET name = ?, country = ? WHERE id = ?`,
		cur.Name, cur.Country, id)
	if err != nil {
		return Team{}, dberr.Wrap(err)
	}
	return r.Get(ctx, id)
}

// Delete removes a team. Players keep their rows; the team_id foreign key
// clears via ON DELETE SET NULL.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return dberr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
