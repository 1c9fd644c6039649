package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// DBTX is the subset of pgxpool.Pool, pgx.Conn and pgx.Tx the repository uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

const schemaPlans = `
CREATE TABLE IF NOT EXISTS plans (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    layout TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const schemaPlanSnapshots = `
CREATE TABLE IF NOT EXISTS plan_snapshots (
    id TEXT PRIMARY KEY,
    plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
    version INTEGER NOT NULL,
    document JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (plan_id, version)
);
`

const (
	createPlanSQL = `
		INSERT INTO plans (id, name, layout)
		VALUES ($1, $2, $3)
		RETURNING id, name, layout, created_at, updated_at
	`

	getPlanSQL = `
		SELECT id, name, layout, created_at, updated_at
		FROM plans WHERE id = $1
	`

	deletePlanSQL = `DELETE FROM plans WHERE id = $1`

	// The next version is computed inside the insert; concurrent writers
	// fail on the (plan_id, version) key.
	createSnapshotSQL = `
		INSERT INTO plan_snapshots (id, plan_id, version, document)
		SELECT $1::text, $2::text, COALESCE(MAX(version), 0) + 1, $3::jsonb
		FROM plan_snapshots WHERE plan_id = $2::text
		RETURNING id, plan_id, version, document, created_at
	`

	touchPlanSQL = `UPDATE plans SET updated_at = now() WHERE id = $1`

	getLatestSnapshotSQL = `
		SELECT id, plan_id, version, document, created_at
		FROM plan_snapshots WHERE plan_id = $1
		ORDER BY version DESC
		LIMIT 1
	`
)

type Plan struct {
	ID        string
	Name      string
	Layout    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Snapshot struct {
	ID        string
	PlanID    string
	Version   int32
	Document  []byte
	CreatedAt time.Time
}

// PlanRepository stores plans and their versioned document snapshots in
// Postgres.
type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

// EnsureSchema creates the plan tables when they are missing.
func (r *PlanRepository) EnsureSchema(ctx context.Context) error {
	for i, stmt := range []string{schemaPlans, schemaPlanSnapshots} {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

// --- Commands ---

func (r *PlanRepository) CreatePlan(ctx context.Context, id, name, layout string) (Plan, error) {
	p, err := scanPlan(r.db.QueryRow(ctx, createPlanSQL, id, name, layout))
	if err != nil {
		return Plan{}, fmt.Errorf("create plan: %w", err)
	}
	return p, nil
}

func (r *PlanRepository) DeletePlan(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, deletePlanSQL, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateSnapshot stores doc as the plan's next version.
func (r *PlanRepository) CreateSnapshot(ctx context.Context, id, planID string, doc []byte) (Snapshot, error) {
	s, err := scanSnapshot(r.db.QueryRow(ctx, createSnapshotSQL, id, planID, doc))
	if err != nil {
		return Snapshot{}, fmt.Errorf("create snapshot: %w", err)
	}
	if _, err := r.db.Exec(ctx, touchPlanSQL, planID); err != nil {
		return Snapshot{}, fmt.Errorf("touch plan: %w", err)
	}
	return s, nil
}

// --- Queries ---

func (r *PlanRepository) GetPlan(ctx context.Context, id string) (Plan, error) {
	p, err := scanPlan(r.db.QueryRow(ctx, getPlanSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plan{}, ErrNotFound
		}
		return Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

func (r *PlanRepository) GetLatestSnapshot(ctx context.Context, planID string) (Snapshot, error) {
	s, err := scanSnapshot(r.db.QueryRow(ctx, getLatestSnapshotSQL, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	return s, nil
}

func scanPlan(row pgx.Row) (Plan, error) {
	var p Plan
	var created, updated pgtype.Timestamptz
	if err := row.Scan(&p.ID, &p.Name, &p.Layout, &created, &updated); err != nil {
		return Plan{}, err
	}
	p.CreatedAt, p.UpdatedAt = created.Time, updated.Time
	return p, nil
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var s Snapshot
	var created pgtype.Timestamptz
	if err := row.Scan(&s.ID, &s.PlanID, &s.Version, &s.Document, &created); err != nil {
		return Snapshot{}, err
	}
	s.CreatedAt = created.Time
	return s, nil
}

// PlanPersister keeps one plan's latest snapshot in sync with an editor
// store. It satisfies store.Persister.
type PlanPersister struct {
	repo   *PlanRepository
	planID string
	newID  func() string
}

func NewPlanPersister(repo *PlanRepository, planID string, newID func() string) *PlanPersister {
	return &PlanPersister{repo: repo, planID: planID, newID: newID}
}

func (p *PlanPersister) Load(ctx context.Context) ([]byte, error) {
	s, err := p.repo.GetLatestSnapshot(ctx, p.planID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Document, nil
}

func (p *PlanPersister) Save(ctx context.Context, data []byte) error {
	_, err := p.repo.CreateSnapshot(ctx, p.newID(), p.planID, data)
	return err
}
