package shortlists

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

func createShortlist(t *testing.T, r http.Handler, name string) Shortlist {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/shortlists", map[string]any{"name": name})
	if w.Code != http.StatusCreated {
		t.Fatalf("create %s: expected 201, got %d: %s", name, w.Code, w.Body.String())
	}
	var s Shortlist
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return s
}

func TestCreate_EmptyName(t *testing.T) {
	r := newRouter(t, newTestDB(t))
	w := doJSON(r, http.MethodPost, "/api/shortlists", map[string]any{"name": "  "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAddAndRemoveMembers(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, db)
	seedPlayer(t, db, "p-alice", "Alice")
	seedPlayer(t, db, "p-bob", "Bob")
	s := createShortlist(t, r, "Scouting Trip A")

	for _, pid := range []string{"p-alice", "p-bob"} {
		w := doJSON(r, http.MethodPost, "/api/shortlists/"+s.ID+"/items", map[string]any{"player_id": pid})
		if w.Code != http.StatusCreated {
			t.Fatalf("add %s: expected 201, got %d: %s", pid, w.Code, w.Body.String())
		}
	}

	w := doJSON(r, http.MethodGet, "/api/shortlists/"+s.ID+"/items", nil)
	var items []Item
	_ = json.Unmarshal(w.Body.Bytes(), &items)
	if len(items) != 2 || items[0].PlayerName != "Alice" || items[1].PlayerName != "Bob" {
		t.Fatalf("unexpected members: %+v", items)
	}
	if items[0].Position != 0 || items[1].Position != 1 {
		t.Fatalf("positions should append in order: %+v", items)
	}

	if w := doJSON(r, http.MethodDelete, "/api/shortlists/"+s.ID+"/items/p-alice", nil); w.Code != http.StatusNoContent {
		t.Fatalf("remove expected 204, got %d", w.Code)
	}
	w = doJSON(r, http.MethodGet, "/api/shortlists/"+s.ID+"/items", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &items)
	if len(items) != 1 || items[0].PlayerName != "Bob" {
		t.Fatalf("expected only Bob to remain: %+v", items)
	}
}

func TestAddMember_Twice(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, db)
	seedPlayer(t, db, "p1", "Alice")
	s := createShortlist(t, r, "Trip")

	if w := doJSON(r, http.MethodPost, "/api/shortlists/"+s.ID+"/items", map[string]any{"player_id": "p1"}); w.Code != http.StatusCreated {
		t.Fatalf("first add expected 201, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/api/shortlists/"+s.ID+"/items", map[string]any{"player_id": "p1"}); w.Code != http.StatusConflict {
		t.Fatalf("second add expected 409, got %d", w.Code)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM shortlist_items`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("expected exactly one membership row, got %d (%v)", n, err)
	}
}

func TestAddMember_UnknownPlayer(t *testing.T) {
	r := newRouter(t, newTestDB(t))
	s := createShortlist(t, r, "Trip")
	w := doJSON(r, http.MethodPost, "/api/shortlists/"+s.ID+"/items", map[string]any{"player_id": "ghost"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown player, got %d", w.Code)
	}
}

func TestItemCount(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, db)
	seedPlayer(t, db, "p1", "Alice")
	s := createShortlist(t, r, "Trip")
	_ = doJSON(r, http.MethodPost, "/api/shortlists/"+s.ID+"/items", map[string]any{"player_id": "p1"})

	w := doJSON(r, http.MethodGet, "/api/shortlists/"+s.ID, nil)
	var got Shortlist
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.ItemCount != 1 {
		t.Fatalf("expected item_count 1, got %d", got.ItemCount)
	}
}

func TestRename_Missing(t *testing.T) {
	r := newRouter(t, newTestDB(t))
	w := doJSON(r, http.MethodPatch, "/api/shortlists/nope", map[string]any{"name": "X"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDelete_RemovesItems(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(t, db)
	seedPlayer(t, db, "p1", "Alice")
	s := createShortlist(t, r, "Trip")
	_ = doJSON(r, http.MethodPost, "/api/shortlists/"+s.ID+"/items", map[string]any{"player_id": "p1"})

	if w := doJSON(r, http.MethodDelete, "/api/shortlists/"+s.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete expected 204, got %d", w.Code)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM shortlist_items`).Scan(&n); err != nil || n != 0 {
		t.Fatalf("items should cascade away, got %d (%v)", n, err)
	}
	if w := doJSON(r, http.MethodGet, "/api/shortlists/"+s.ID+"/items", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted shortlist, got %d", w.Code)
	}
}
