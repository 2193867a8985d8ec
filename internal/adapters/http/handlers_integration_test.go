//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kerrokantasi/hearinggeo/internal/adapters/http"
	"github.com/kerrokantasi/hearinggeo/internal/adapters/memcache"
	"github.com/kerrokantasi/hearinggeo/internal/adapters/postgres"
	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/usecases"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/config"
)

// setupTestDB connects to the test database described by HEARINGGEO_* env vars.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("hearinggeo-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

// setupTestDeps wires real repositories with an in-process session store.
func setupTestDeps(t *testing.T, db *postgres.DB) *http.Dependencies {
	cache, err := memcache.New(1000)
	if err != nil {
		t.Fatalf("session cache: %v", err)
	}
	t.Cleanup(cache.Close)

	repo := postgres.NewHearingRepo(db)
	return &http.Dependencies{
		Hearings: usecases.NewHearingService(repo, cache, 60, 500),
		Editor:   usecases.NewEditorService(repo, cache, nil, 300),
		Cache:    cache,
		DB:       db,
	}
}

// seedTestHearing inserts a hearing and returns its ID.
func seedTestHearing(t *testing.T, db *postgres.DB, geojson string) string {
	h := &domain.Hearing{
		ID:      uuid.NewString(),
		Slug:    "test-" + time.Now().Format("20060102150405.000000"),
		Title:   map[string]string{"fi": "Testikuuleminen"},
		GeoJSON: json.RawMessage(geojson),
	}
	if err := postgres.NewHearingRepo(db).Upsert(context.Background(), h); err != nil {
		t.Fatalf("seed hearing: %v", err)
	}
	return h.ID
}

func TestGetHearing_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	id := seedTestHearing(t, db, `{"type":"Point","coordinates":[24.94,60.17]}`)
	app := setupApp(setupTestDeps(t, db))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/hearings/"+id, nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var h domain.Hearing
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if h.ID != id {
		t.Errorf("expected id %s, got %s", id, h.ID)
	}
}

// TestEditorRoundTrip_Integration opens a session, draws a polygon and saves
// it back to the database.
func TestEditorRoundTrip_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Close()

	id := seedTestHearing(t, db, `[]`)
	app := setupApp(setupTestDeps(t, db))

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/hearings/"+id+"/editor", nil), -1)
	if err != nil || resp.StatusCode != 201 {
		t.Fatalf("open editor: status %v err %v", resp.StatusCode, err)
	}
	var sess domain.EditSession
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	body := `{"geometry":{"type":"Polygon","coordinates":[[[24.9,60.1],[25.0,60.1],[25.0,60.2],[24.9,60.1]]]}}`
	req := httptest.NewRequest("POST", "/v1/editor/"+sess.ID+"/created", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if resp, err = app.Test(req, -1); err != nil || resp.StatusCode != 200 {
		t.Fatalf("draw created: status %v err %v", resp.StatusCode, err)
	}

	if resp, err = app.Test(httptest.NewRequest("POST", "/v1/editor/"+sess.ID+"/save", nil), -1); err != nil || resp.StatusCode != 200 {
		t.Fatalf("save: status %v err %v", resp.StatusCode, err)
	}

	stored, err := postgres.NewHearingRepo(db).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload hearing: %v", err)
	}
	if !strings.Contains(string(stored.GeoJSON), `"Polygon"`) {
		t.Errorf("expected saved polygon, got %s", stored.GeoJSON)
	}
}
