package notes

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/scoutlens/scoutlens/internal/dberr"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

// ListByPlayer returns a player's quick notes, newest first.
func (r *Repository) ListByPlayer(ctx context.Context, playerID string) ([]QuickNote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_id, content, created_at, updated_at
		FROM quick_notes WHERE player_id = ?
		ORDER BY created_at DESC`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]QuickNote, 0)
	for rows.Next() {
		var n QuickNote
		if err := rows.Scan(&n.ID, &n.PlayerID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) Add(ctx context.Context, playerID, content string) (QuickNote, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO quick_notes (id, player_id, content) VALUES (?, ?, ?)`,
		id, playerID, content)
	if err != nil {
		return QuickNote{}, dberr.Wrap(err)
	}
	return r.get(ctx, id)
}

func (r *Repository) UpdateContent(ctx context.Context, id, content string) (QuickNote, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE quick_notes SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return QuickNote{}, dberr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return QuickNote{}, dberr.ErrNotFound
	}
	return r.get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM quick_notes WHERE id = ?`, id)
	if err != nil {
		return dberr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// Counts reads the quick_note_counts aggregate; players without notes are
// absent rather than reported as zero.
func (r *Repository) Counts(ctx context.Context) ([]PlayerNoteCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT player_id, note_count FROM quick_note_counts ORDER BY note_count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PlayerNoteCount, 0)
	for rows.Next() {
		var c PlayerNoteCount
		if err := rows.Scan(&c.PlayerID, &c.NoteCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ---- tagged notes ----

// NoteFilter narrows Search. Query matches the content case-insensitively;
// Tag requires an exact tag entry.
type NoteFilter struct {
	PlayerID string
	Query    string
	Tag      string
	Oldest   bool
}

func (r *Repository) Search(ctx context.Context, f NoteFilter) ([]Note, error) {
	q := `SELECT id, player_id, content, tags, created_at FROM notes`
	var conds []string
	var args []any
	if f.PlayerID != "" {
		conds = append(conds, "player_id = ?")
		args = append(args, f.PlayerID)
	}
	if f.Query != "" {
		conds = append(conds, "content LIKE ? COLLATE NOCASE")
		args = append(args, "%"+f.Query+"%")
	}
	if f.Tag != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM json_each(notes.tags) WHERE json_each.value = ?)")
		args = append(args, f.Tag)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	if f.Oldest {
		q += " ORDER BY created_at, id"
	} else {
		q += " ORDER BY created_at DESC, id DESC"
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) AddNote(ctx context.Context, playerID, content string, tags []string) (Note, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, player_id, content, tags) VALUES (?, ?, ?, ?)`,
		id, playerID, content, encodeTags(cleanTags(tags)))
	if err != nil {
		return Note{}, dberr.Wrap(err)
	}
	return r.getNote(ctx, id)
}

// UpdateNote replaces content and/or tags; nil keeps the stored value.
func (r *Repository) UpdateNote(ctx context.Context, id string, content *string, tags []string) (Note, error) {
	cur, err := r.getNote(ctx, id)
	if err != nil {
		return Note{}, err
	}
	if content != nil {
		cur.Content = *content
	}
	if tags != nil {
		cur.Tags = cleanTags(tags)
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE notes SET content = ?, tags = ? WHERE id = ?`,
		cur.Content, encodeTags(cur.Tags), id)
	if err != nil {
		return Note{}, dberr.Wrap(err)
	}
	return r.getNote(ctx, id)
}

func (r *Repository) DeleteNote(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return dberr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (Note, error) {
	var n Note
	var tags string
	if err := row.Scan(&n.ID, &n.PlayerID, &n.Content, &tags, &n.CreatedAt); err != nil {
		return Note{}, err
	}
	n.Tags = decodeTags(tags)
	return n, nil
}

func (r *Repository) getNote(ctx context.Context, id string) (Note, error) {
	n, err := scanNote(r.db.QueryRowContext(ctx,
		`SELECT id, player_id, content, tags, created_at FROM notes WHERE id = ?`, id))
	if err != nil {
		return Note{}, dberr.Wrap(err)
	}
	return n, nil
}

func (r *Repository) get(ctx context.Context, id string) (QuickNote, error) {
	var n QuickNote
	err := r.db.QueryRowContext(ctx, `
		SELECT id, player_id, content, created_at, updated_at
		FROM quick_notes WHERE id = ?`, id,
	).Scan(&n.ID, &n.PlayerID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return QuickNote{}, dberr.Wrap(err)
	}
	return n, nil
}
