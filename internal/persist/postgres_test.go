package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// fakeRow scans a fixed list of values into pointer destinations.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int32:
			*d = v.(int32)
		case *[]byte:
			*d = v.([]byte)
		case *pgtype.Timestamptz:
			*d = pgtype.Timestamptz{Time: v.(time.Time), Valid: true}
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

type call struct {
	sql  string
	args []any
}

type fakeDB struct {
	rows  []pgx.Row
	tag   pgconn.CommandTag
	err   error
	calls []call
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.calls = append(db.calls, call{sql, args})
	return db.tag, db.err
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.calls = append(db.calls, call{sql, args})
	if len(db.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	row := db.rows[0]
	db.rows = db.rows[1:]
	return row
}

var created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestCreateAndGetPlan(t *testing.T) {
	db := &fakeDB{rows: []pgx.Row{
		fakeRow{values: []any{"plan_1", "Kitchen", "l-shaped", created, created}},
	}}
	repo := NewPlanRepository(db)

	p, err := repo.CreatePlan(context.Background(), "plan_1", "Kitchen", "l-shaped")
	if err != nil {
		t.Fatalf("CreatePlan() error = %v", err)
	}
	if p.ID != "plan_1" || p.Layout != "l-shaped" || !p.CreatedAt.Equal(created) {
		t.Errorf("plan = %+v", p)
	}
	if got := db.calls[0].args; len(got) != 3 || got[0] != "plan_1" {
		t.Errorf("insert args = %v", got)
	}

	if _, err := repo.GetPlan(context.Background(), "plan_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPlan() missing error = %v, want ErrNotFound", err)
	}
}

func TestCreateSnapshotTouchesPlan(t *testing.T) {
	doc := []byte(`{"version":1}`)
	db := &fakeDB{rows: []pgx.Row{
		fakeRow{values: []any{"snap_1", "plan_1", int32(3), doc, created}},
	}}
	repo := NewPlanRepository(db)

	s, err := repo.CreateSnapshot(context.Background(), "snap_1", "plan_1", doc)
	if err != nil {
		t.Fatalf("CreateSnapshot() error = %v", err)
	}
	if s.Version != 3 || string(s.Document) != string(doc) {
		t.Errorf("snapshot = %+v", s)
	}
	if len(db.calls) != 2 || !strings.Contains(db.calls[1].sql, "UPDATE plans") {
		t.Errorf("calls = %+v", db.calls)
	}
}

func TestGetLatestSnapshotErrors(t *testing.T) {
	repo := NewPlanRepository(&fakeDB{})
	if _, err := repo.GetLatestSnapshot(context.Background(), "plan_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("no rows error = %v, want ErrNotFound", err)
	}

	boom := errors.New("connection reset")
	repo = NewPlanRepository(&fakeDB{rows: []pgx.Row{fakeRow{err: boom}}})
	_, err := repo.GetLatestSnapshot(context.Background(), "plan_1")
	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Errorf("driver error = %v, want wrapped %v", err, boom)
	}
}

func TestDeletePlan(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("DELETE 1")}
	if err := NewPlanRepository(db).DeletePlan(context.Background(), "plan_1"); err != nil {
		t.Fatalf("DeletePlan() error = %v", err)
	}
	db = &fakeDB{tag: pgconn.NewCommandTag("DELETE 0")}
	if err := NewPlanRepository(db).DeletePlan(context.Background(), "plan_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeletePlan() missing error = %v", err)
	}
}

func TestEnsureSchemaCreatesBothTables(t *testing.T) {
	db := &fakeDB{}
	if err := NewPlanRepository(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if len(db.calls) != 2 || !strings.Contains(db.calls[1].sql, "plan_snapshots") {
		t.Errorf("calls = %+v", db.calls)
	}
}

func TestPlanPersister(t *testing.T) {
	doc := []byte(`{"version":1}`)
	db := &fakeDB{}
	p := NewPlanPersister(NewPlanRepository(db), "plan_1", func() string { return "snap_x" })

	data, err := p.Load(context.Background())
	if err != nil || data != nil {
		t.Fatalf("Load() without snapshots = %q, %v", data, err)
	}

	db.rows = []pgx.Row{fakeRow{values: []any{"snap_x", "plan_1", int32(1), doc, created}}}
	if err := p.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	insert := db.calls[1]
	if insert.args[0] != "snap_x" || insert.args[1] != "plan_1" {
		t.Errorf("snapshot insert args = %v", insert.args)
	}
}
