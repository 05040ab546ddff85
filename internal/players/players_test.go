package players

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	dbpkg "github.com/scoutlens/scoutlens/internal/db"
	"github.com/scoutlens/scoutlens/internal/dberr"
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

func strp(s string) *string { return &s }
func intp(n int64) *int64   { return &n }

func TestCreateAndGet_RoundTrip(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	p, err := repo.Create(ctx, Player{
		Name:               "Alice Aalto",
		ExternalID:         strp("tm-123"),
		Position:           strp("CM"),
		SecondaryPositions: []string{"DM", "RM"},
		ScoutRating:        intp(8),
		Tags:               []string{"u21", "left-footed"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected generated id")
	}

	got, err := repo.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Alice Aalto" || *got.ExternalID != "tm-123" {
		t.Fatalf("bad round trip: %+v", got)
	}
	if len(got.SecondaryPositions) != 2 || got.SecondaryPositions[1] != "RM" {
		t.Fatalf("secondary positions lost: %v", got.SecondaryPositions)
	}
	if len(got.Tags) != 2 {
		t.Fatalf("tags lost: %v", got.Tags)
	}
}

func TestCreate_DuplicateExternalID(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	if _, err := repo.Create(ctx, Player{Name: "Alice", ExternalID: strp("tm-1")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(ctx, Player{Name: "Bob", ExternalID: strp("tm-1")})
	if !dberr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreate_UnknownTeam(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	_, err := repo.Create(context.Background(), Player{Name: "Alice", TeamID: strp("ghost")})
	if !dberr.IsForeignKey(err) {
		t.Fatalf("expected foreign key error, got %v", err)
	}
}

func TestList_Filters(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	if _, err := db.Exec(`INSERT INTO teams (id, name) VALUES ('t1', 'HJK')`); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	mk := func(name string, teamID *string, rating *int64) {
		if _, err := repo.Create(ctx, Player{Name: name, TeamID: teamID, ScoutRating: rating}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	mk("Alice Aalto", strp("t1"), intp(9))
	mk("Bob Berg", strp("t1"), intp(6))
	mk("Carla Diaz", nil, intp(8))

	list, err := repo.List(ctx, Filter{TeamID: "t1"})
	if err != nil {
		t.Fatalf("list by team: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 team players, got %d", len(list))
	}

	// Case-insensitive contains match.
	list, err = repo.List(ctx, Filter{Query: "aal"})
	if err != nil {
		t.Fatalf("list by query: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Alice Aalto" {
		t.Fatalf("query match failed: %+v", list)
	}

	list, err = repo.List(ctx, Filter{Order: "scout_rating", Limit: 2})
	if err != nil {
		t.Fatalf("list by rating: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Alice Aalto" || list[1].Name != "Carla Diaz" {
		t.Fatalf("rating order failed: %+v", list)
	}

	if _, err = repo.List(ctx, Filter{Order: "password_hash"}); !errors.Is(err, ErrBadOrder) {
		t.Fatalf("expected ErrBadOrder, got %v", err)
	}
}

func TestUpdate_ClearVersusKeep(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	if _, err := db.Exec(`INSERT INTO teams (id, name) VALUES ('t1', 'HJK')`); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	p, err := repo.Create(ctx, Player{Name: "Alice", TeamID: strp("t1"), ExternalID: strp("tm-1")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Untouched fields keep their values.
	got, err := repo.Update(ctx, p.ID, UpdateParams{Notes: strp("press resistant")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.TeamID == nil || *got.TeamID != "t1" || got.ExternalID == nil {
		t.Fatalf("references lost on unrelated patch: %+v", got)
	}

	// Explicitly clearing the team drops the reference.
	got, err = repo.Update(ctx, p.ID, UpdateParams{SetTeamID: true})
	if err != nil {
		t.Fatalf("clear team: %v", err)
	}
	if got.TeamID != nil {
		t.Fatalf("team should be cleared, got %v", *got.TeamID)
	}
	if got.ExternalID == nil || *got.ExternalID != "tm-1" {
		t.Fatalf("external id should survive, got %v", got.ExternalID)
	}
}

func TestDelete_CascadesToDependents(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	p, err := repo.Create(ctx, Player{Name: "Alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	seed := []string{
		`INSERT INTO matches (id, kickoff_at) VALUES ('m1', '2026-09-01T18:00:00Z')`,
		`INSERT INTO scout_reports (id, player_id) VALUES ('r1', '` + p.ID + `')`,
		`INSERT INTO quick_notes (id, player_id, content) VALUES ('n1', '` + p.ID + `', 'fast')`,
		`INSERT INTO shortlists (id, name) VALUES ('s1', 'Trip')`,
		`INSERT INTO shortlist_items (id, shortlist_id, player_id) VALUES ('i1', 's1', '` + p.ID + `')`,
		`INSERT INTO match_targets (id, match_id, player_id) VALUES ('mt1', 'm1', '` + p.ID + `')`,
	}
	for _, q := range seed {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, table := range []string{"scout_reports", "quick_notes", "shortlist_items", "match_targets"} {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Fatalf("%s should be empty after player delete, got %d rows", table, n)
		}
	}

	if err := repo.Delete(ctx, p.ID); !dberr.IsNotFound(err) {
		t.Fatalf("second delete expected not found, got %v", err)
	}
}
