package planapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/persist"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/typeid"
)

type memRepo struct {
	plans map[string]persist.Plan
	snaps map[string][]persist.Snapshot
	err   error
}

func newMemRepo() *memRepo {
	return &memRepo{plans: map[string]persist.Plan{}, snaps: map[string][]persist.Snapshot{}}
}

func (m *memRepo) CreatePlan(_ context.Context, id, name, layout string) (persist.Plan, error) {
	if m.err != nil {
		return persist.Plan{}, m.err
	}
	p := persist.Plan{ID: id, Name: name, Layout: layout, CreatedAt: time.Unix(0, 0), UpdatedAt: time.Unix(0, 0)}
	m.plans[id] = p
	return p, nil
}

func (m *memRepo) GetPlan(_ context.Context, id string) (persist.Plan, error) {
	p, ok := m.plans[id]
	if !ok {
		return persist.Plan{}, persist.ErrNotFound
	}
	return p, nil
}

func (m *memRepo) CreateSnapshot(_ context.Context, id, planID string, doc []byte) (persist.Snapshot, error) {
	s := persist.Snapshot{ID: id, PlanID: planID, Version: int32(len(m.snaps[planID]) + 1), Document: doc}
	m.snaps[planID] = append(m.snaps[planID], s)
	return s, nil
}

func (m *memRepo) GetLatestSnapshot(_ context.Context, planID string) (persist.Snapshot, error) {
	list := m.snaps[planID]
	if len(list) == 0 {
		return persist.Snapshot{}, persist.ErrNotFound
	}
	return list[len(list)-1], nil
}

func newTestServer(repo Repository) http.Handler {
	svc := NewService(repo, RenderOptions{Width: 320, Height: 240})
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	r := mux.NewRouter()
	NewHandler(svc).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func createPlan(t *testing.T, h http.Handler, layout string) Plan {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/plans", `{"name":"Kitchen","layout":"`+layout+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var p Plan
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCreateSeedsDefaultRoom(t *testing.T) {
	repo := newMemRepo()
	h := newTestServer(repo)
	p := createPlan(t, h, "l-shaped")

	if err := typeid.Validate(p.ID, typeid.PrefixPlan); err != nil {
		t.Errorf("plan id: %v", err)
	}

	rec := do(t, h, http.MethodGet, "/api/plans/"+p.ID+"/snapshots/latest", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("latest status = %d", rec.Code)
	}
	plan, err := document.Parse(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	if plan.Room == nil || plan.Room.Shape != document.ShapeLShape || plan.Room.Width != 4000 {
		t.Errorf("seed room = %+v", plan.Room)
	}
}

func TestCreateValidation(t *testing.T) {
	h := newTestServer(newMemRepo())
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"missing name", `{"layout":"island"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, http.MethodPost, "/api/plans", tt.body); rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	repo := newMemRepo()
	repo.err = errors.New("db down")
	if rec := do(t, newTestServer(repo), http.MethodPost, "/api/plans", `{"name":"x"}`); rec.Code != http.StatusInternalServerError {
		t.Errorf("repo failure status = %d", rec.Code)
	}
}

func TestGetPlan(t *testing.T) {
	h := newTestServer(newMemRepo())
	p := createPlan(t, h, "")

	if rec := do(t, h, http.MethodGet, "/api/plans/"+p.ID, ""); rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/plans/"+typeid.NewPlanID(), ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown plan status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/plans/not-an-id", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", rec.Code)
	}
}

func TestSaveSnapshot(t *testing.T) {
	repo := newMemRepo()
	h := newTestServer(repo)
	p := createPlan(t, h, "single-wall")

	doc := `{"version":"1.0","room":{"shape":"rectangle","width":500,"height":3000},"placedItems":[{"id":"a","type":"Radiator","x":0,"y":0,"rotation":450,"width":800,"height":30}]}`
	rec := do(t, h, http.MethodPut, "/api/plans/"+p.ID+"/snapshots", doc)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body)
	}
	var info SnapshotInfo
	json.Unmarshal(rec.Body.Bytes(), &info)
	if info.Version != 2 {
		t.Errorf("version = %d, want 2", info.Version)
	}

	stored, err := document.Parse(repo.snaps[p.ID][1].Document)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Room.Width != document.MinRoomDimension || stored.PlacedItems[0].Rotation != 90 {
		t.Errorf("stored document was not normalized: %+v", stored)
	}

	for _, bad := range []string{`not json`, `[1,2]`, `{"version":"2.0"}`} {
		if rec := do(t, h, http.MethodPut, "/api/plans/"+p.ID+"/snapshots", bad); rec.Code != http.StatusBadRequest {
			t.Errorf("%q status = %d, want 400", bad, rec.Code)
		}
	}
	if n := len(repo.snaps[p.ID]); n != 2 {
		t.Errorf("malformed documents were stored: %d snapshots", n)
	}

	if rec := do(t, h, http.MethodPut, "/api/plans/"+typeid.NewPlanID()+"/snapshots", doc); rec.Code != http.StatusNotFound {
		t.Errorf("unknown plan status = %d", rec.Code)
	}
}

func TestExportLatestPNG(t *testing.T) {
	h := newTestServer(newMemRepo())
	p := createPlan(t, h, "u-shaped")

	rec := do(t, h, http.MethodGet, "/api/plans/"+p.ID+"/export.png", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d: %s", rec.Code, rec.Body)
	}
	if rec.Header().Get("Content-Type") != "image/png" || !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("export is not a PNG")
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="kitchen-plan-1700000000000.png"` {
		t.Errorf("disposition = %q", got)
	}
}

func TestExportDocumentPNG(t *testing.T) {
	h := newTestServer(newMemRepo())

	rec := do(t, h, http.MethodPost, "/export/png", `{"version":"1.0","room":{"shape":"rectangle","width":4000,"height":3000}}`)
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Errorf("export status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/export/png", `nope`); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed export status = %d", rec.Code)
	}
}
