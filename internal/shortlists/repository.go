package shortlists

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

func (r *Repository) Create(ctx context.Context, name string) (Shortlist, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shortlists (id, name) VALUES (?, ?)`, id, name)
	if err != nil {
		return Shortlist{}, dberr.Wrap(err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Get(ctx context.Context, id string) (Shortlist, error) {
	var s Shortlist
	err := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.name,
		       (SELECT COUNT(*) FROM shortlist_items i WHERE i.shortlist_id = s.id),
		       s.created_at
		FROM shortlists s WHERE s.id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.ItemCount, &s.CreatedAt)
	if err != nil {
		return Shortlist{}, dberr.Wrap(err)
	}
	return s, nil
}

func (r *Repository) List(ctx context.Context) ([]Shortlist, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.name,
		       (SELECT COUNT(*) FROM shortlist_items i WHERE i.shortlist_id = s.id),
		       s.created_at
		FROM shortlists s ORDER BY s.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Shortlist, 0)
	for rows.Next() {
		var s Shortlist
		if err := rows.Scan(&s.ID, &s.Name, &s.ItemCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Rename(ctx context.Context, id, name string) (Shortlist, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE shortlists SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return Shortlist{}, dberr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Shortlist{}, dberr.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes the list; its items go with it via cascade.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shortlists WHERE id = ?`, id)
	if err != nil {
		return dberr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// ---- items ----

func (r *Repository) ListItems(ctx context.Context, shortlistID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.shortlist_id, i.player_id, p.name, i.position, i.created_at
		FROM shortlist_items i
		JOIN players p ON p.id = i.player_id
		WHERE i.shortlist_id = ?
		ORDER BY i.position, i.created_at`, shortlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ShortlistID, &it.PlayerID, &it.PlayerName, &it.Position, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// AddItem appends a player to the list. The (shortlist_id, player_id)
// uniqueness constraint turns a repeat add into a conflict.
func (r *Repository) AddItem(ctx context.Context, shortlistID, playerID string) (Item, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shortlist_items (id, shortlist_id, player_id, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM shortlist_items WHERE shortlist_id = ?))`,
		id, shortlistID, playerID, shortlistID)
	if err != nil {
		return Item{}, dberr.Wrap(err)
	}
	var it Item
	err = r.db.QueryRowContext(ctx, `
		SELECT i.id, i.shortlist_id, i.player_id, p.name, i.position, i.created_at
		FROM shortlist_items i JOIN players p ON p.id = i.player_id
		WHERE i.id = ?`, id,
	).Scan(&it.ID, &it.ShortlistID, &it.PlayerID, &it.PlayerName, &it.Position, &it.CreatedAt)
	if err != nil {
		return Item{}, dberr.Wrap(err)
	}
	return it, nil
}

func (r *Repository) RemoveItem(ctx context.Context, shortlistID, playerID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM shortlist_items WHERE shortlist_id = ? AND player_id = ?`,
		shortlistID, playerID)
	if err != nil {
		return dberr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
