package notes

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	dbpkg "github.com/scoutlens/scoutlens/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := dbpkg.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newRouter(t *testing.T, db *sql.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, NewRepository(db), nil)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedPlayer(t *testing.T, db *sql.DB, id, name string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO players (id, name) VALUES (?, ?)`, id, name); err != nil {
		t.Fatalf("seed player: %v", err)
	}
}

func TestAddAndList(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, db)
	seedPlayer(t, db, "p1", "Alice")

	w := doJSON(r, http.MethodPost, "/api/players/p1/quick-notes", map[string]any{"content": "  good first touch  "})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var n QuickNote
	_ = json.Unmarshal(w.Body.Bytes(), &n)
	if n.Content != "good first touch" {
		t.Fatalf("content not trimmed: %q", n.Content)
	}

	w = doJSON(r, http.MethodGet, "/api/players/p1/quick-notes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list expected 200, got %d", w.Code)
	}
	var list []QuickNote
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 1 || list[0].ID != n.ID {
		t.Fatalf("note not listed: %+v", list)
	}
}

func TestAdd_Validation(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, db)
	seedPlayer(t, db, "p1", "Alice")

	w := doJSON(r, http.MethodPost, "/api/players/p1/quick-notes", map[string]any{"content": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank note, got %d", w.Code)
	}
	w = doJSON(r, http.MethodPost, "/api/players/ghost/quick-notes", map[string]any{"content": "fast"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown player, got %d", w.Code)
	}
}

func TestUpdate_RefreshesTimestamp(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, db)
	seedPlayer(t, db, "p1", "Alice")
	if _, err := db.Exec(`INSERT INTO quick_notes (id, player_id, content, created_at, updated_at)
		VALUES ('n1', 'p1', 'first look', '2000-01-01 00:00:00', '2000-01-01 00:00:00')`); err != nil {
		t.Fatalf("seed note: %v", err)
	}

	w := doJSON(r, http.MethodPatch, "/api/quick-notes/n1", map[string]any{"content": "second look"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var n QuickNote
	_ = json.Unmarshal(w.Body.Bytes(), &n)
	if n.Content != "second look" {
		t.Fatalf("content not updated: %q", n.Content)
	}
	if !n.UpdatedAt.After(n.CreatedAt) {
		t.Fatalf("updated_at should move past created_at: created=%v updated=%v", n.CreatedAt, n.UpdatedAt)
	}
}

func TestCounts(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, db)
	seedPlayer(t, db, "p1", "Alice")
	seedPlayer(t, db, "p2", "Bob")
	for i := 0; i < 2; i++ {
		if w := doJSON(r, http.MethodPost, "/api/players/p1/quick-notes", map[string]any{"content": "note"}); w.Code != http.StatusCreated {
			t.Fatalf("add note %d: %d", i, w.Code)
		}
	}

	w := doJSON(r, http.MethodGet, "/api/quick-notes/counts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var counts []PlayerNoteCount
	_ = json.Unmarshal(w.Body.Bytes(), &counts)
	// Players without notes are absent rather than zero.
	if len(counts) != 1 || counts[0].PlayerID != "p1" || counts[0].NoteCount != 2 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestNotes_AddCleansTags(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, db)
	seedPlayer(t, db, "p1", "Alice")

	w := doJSON(r, http.MethodPost, "/api/players/p1/notes", map[string]any{
		"content": "  strong in duels  ",
		"tags":    []string{" U21 ; u21 ", "Brazil", ""},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var n Note
	_ = json.Unmarshal(w.Body.Bytes(), &n)
	if n.Content != "strong in duels" {
		t.Fatalf("content not trimmed: %q", n.Content)
	}
	// Case-insensitive dedupe keeps the first spelling.
	if len(n.Tags) != 2 || n.Tags[0] != "U21" || n.Tags[1] != "Brazil" {
		t.Fatalf("tags not cleaned: %v", n.Tags)
	}

	w = doJSON(r, http.MethodPost, "/api/players/ghost/notes", map[string]any{"content": "x"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown player, got %d", w.Code)
	}
}

func TestNotes_TagLengthCap(t *testing.T) {
	got := cleanTags([]string{"0123456789012345678901234567"})
	if len(got) != 1 || got[0] != "012345678901234567890123" {
		t.Fatalf("tag should cap at 24 runes, got %v", got)
	}
}

func TestNotes_Search(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, db)
	seedPlayer(t, db, "p1", "Alice")
	seedPlayer(t, db, "p2", "Bob")
	seed := []struct{ id, player, content, tags, created string }{
		{"n1", "p1", "great vision", `["U21"]`, "2026-01-01 10:00:00"},
		{"n2", "p1", "weak left foot", `["U21","LW"]`, "2026-01-02 10:00:00"},
		{"n3", "p2", "great engine", `[]`, "2026-01-03 10:00:00"},
	}
	for _, s := range seed {
		if _, err := db.Exec(`INSERT INTO notes (id, player_id, content, tags, created_at) VALUES (?, ?, ?, ?, ?)`,
			s.id, s.player, s.content, s.tags, s.created); err != nil {
			t.Fatalf("seed %s: %v", s.id, err)
		}
	}

	// Case-insensitive text search across all players, newest first.
	w := doJSON(r, http.MethodGet, "/api/notes?q=GREAT", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list []Note
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 2 || list[0].ID != "n3" || list[1].ID != "n1" {
		t.Fatalf("text search failed: %+v", list)
	}

	// Tag filter is an exact entry match.
	w = doJSON(r, http.MethodGet, "/api/notes?tag=LW", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 1 || list[0].ID != "n2" {
		t.Fatalf("tag filter failed: %+v", list)
	}

	// Per-player listing plus oldest-first sort.
	w = doJSON(r, http.MethodGet, "/api/notes?player_id=p1&sort=oldest", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 2 || list[0].ID != "n1" || list[1].ID != "n2" {
		t.Fatalf("oldest sort failed: %+v", list)
	}

	w = doJSON(r, http.MethodGet, "/api/players/p2/notes", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 1 || list[0].ID != "n3" {
		t.Fatalf("player listing failed: %+v", list)
	}
}

func TestNotes_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, db)
	seedPlayer(t, db, "p1", "Alice")
	w := doJSON(r, http.MethodPost, "/api/players/p1/notes", map[string]any{"content": "raw", "tags": []string{"U21"}})
	var n Note
	_ = json.Unmarshal(w.Body.Bytes(), &n)

	// Patching only the content keeps the tags.
	w = doJSON(r, http.MethodPatch, "/api/notes/"+n.ID, map[string]any{"content": "polished"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch expected 200, got %d: %s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &n)
	if n.Content != "polished" || len(n.Tags) != 1 || n.Tags[0] != "U21" {
		t.Fatalf("patch merged wrong: %+v", n)
	}

	w = doJSON(r, http.MethodPatch, "/api/notes/"+n.ID, map[string]any{"tags": []string{"LW"}})
	_ = json.Unmarshal(w.Body.Bytes(), &n)
	if n.Content != "polished" || len(n.Tags) != 1 || n.Tags[0] != "LW" {
		t.Fatalf("tag patch merged wrong: %+v", n)
	}

	if w := doJSON(r, http.MethodDelete, "/api/notes/"+n.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete expected 204, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/notes/"+n.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete expected 404, got %d", w.Code)
	}
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, db)
	seedPlayer(t, db, "p1", "Alice")
	w := doJSON(r, http.MethodPost, "/api/players/p1/quick-notes", map[string]any{"content": "fast"})
	var n QuickNote
	_ = json.Unmarshal(w.Body.Bytes(), &n)

	if w := doJSON(r, http.MethodDelete, "/api/quick-notes/"+n.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete expected 204, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/quick-notes/"+n.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete expected 404, got %d", w.Code)
	}
}
