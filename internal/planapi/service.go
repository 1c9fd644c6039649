package planapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kitchenplan/kitchenplan/backend-go/internal/document"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/engine"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/persist"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/subdivide"
	"github.com/kitchenplan/kitchenplan/backend-go/internal/typeid"
)

var (
	ErrNotFound        = errors.New("plan not found")
	ErrInvalidID       = errors.New("invalid plan id")
	ErrInvalidDocument = errors.New("invalid plan document")
)

// Repository is the plan storage the service needs. persist.PlanRepository
// implements it.
type Repository interface {
	CreatePlan(ctx context.Context, id, name, layout string) (persist.Plan, error)
	GetPlan(ctx context.Context, id string) (persist.Plan, error)
	CreateSnapshot(ctx context.Context, id, planID string, doc []byte) (persist.Snapshot, error)
	GetLatestSnapshot(ctx context.Context, planID string) (persist.Snapshot, error)
}

type RenderOptions struct {
	Width  int
	Height int
	Areas  subdivide.Options
}

type Service struct {
	repo   Repository
	render RenderOptions
	now    func() time.Time
}

func NewService(repo Repository, render RenderOptions) *Service {
	return &Service{repo: repo, render: render, now: time.Now}
}

type Plan struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Layout    string `json:"layout"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type SnapshotInfo struct {
	ID        string `json:"id"`
	PlanID    string `json:"planId"`
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt"`
}

// Create stores a new plan and seeds version 1 with the default room for
// the preferred layout.
func (s *Service) Create(ctx context.Context, name, layout string) (*Plan, error) {
	planID := typeid.NewPlanID()

	p, err := s.repo.CreatePlan(ctx, planID, name, layout)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	seed := document.Plan{Room: document.NewDefaultRoom(document.ShapeForLayout(layout))}
	docJSON, err := document.Marshal(seed, s.now())
	if err != nil {
		return nil, fmt.Errorf("marshal initial document: %w", err)
	}
	if _, err := s.repo.CreateSnapshot(ctx, typeid.NewSnapshotID(), planID, docJSON); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return toPlan(p), nil
}

func (s *Service) Get(ctx context.Context, planID string) (*Plan, error) {
	if err := validateID(planID); err != nil {
		return nil, err
	}
	p, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, mapNotFound(err, "get plan")
	}
	return toPlan(p), nil
}

func (s *Service) GetLatestSnapshot(ctx context.Context, planID string) (json.RawMessage, error) {
	if err := validateID(planID); err != nil {
		return nil, err
	}
	snap, err := s.repo.GetLatestSnapshot(ctx, planID)
	if err != nil {
		return nil, mapNotFound(err, "get snapshot")
	}
	return snap.Document, nil
}

// SaveSnapshot validates a serialized document and stores its normalized
// form as the plan's next version. Malformed input stores nothing.
func (s *Service) SaveSnapshot(ctx context.Context, planID string, data []byte) (*SnapshotInfo, error) {
	if err := validateID(planID); err != nil {
		return nil, err
	}
	plan, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if _, err := s.repo.GetPlan(ctx, planID); err != nil {
		return nil, mapNotFound(err, "get plan")
	}

	docJSON, err := document.Marshal(plan, s.now())
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	snap, err := s.repo.CreateSnapshot(ctx, typeid.NewSnapshotID(), planID, docJSON)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	return &SnapshotInfo{
		ID:        snap.ID,
		PlanID:    snap.PlanID,
		Version:   int(snap.Version),
		CreatedAt: formatTime(snap.CreatedAt),
	}, nil
}

// RenderLatest writes the latest snapshot of a plan as PNG.
func (s *Service) RenderLatest(ctx context.Context, planID string, out io.Writer) error {
	doc, err := s.GetLatestSnapshot(ctx, planID)
	if err != nil {
		return err
	}
	plan, err := document.Parse(doc)
	if err != nil {
		return fmt.Errorf("parse stored snapshot: %w", err)
	}
	return engine.RenderPNG(out, plan, s.render.Width, s.render.Height, s.render.Areas)
}

// RenderDocument writes a posted document as PNG without storing it.
func (s *Service) RenderDocument(data []byte, out io.Writer) error {
	plan, err := document.Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return engine.RenderPNG(out, plan, s.render.Width, s.render.Height, s.render.Areas)
}

// ExportFilename is the download name for a rendered plan.
func (s *Service) ExportFilename() string {
	return fmt.Sprintf("kitchen-plan-%d.png", s.now().UnixMilli())
}

func validateID(planID string) error {
	if err := typeid.Validate(planID, typeid.PrefixPlan); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	return nil
}

func mapNotFound(err error, op string) error {
	if errors.Is(err, persist.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toPlan(p persist.Plan) *Plan {
	return &Plan{
		ID:        p.ID,
		Name:      p.Name,
		Layout:    p.Layout,
		CreatedAt: formatTime(p.CreatedAt),
		UpdatedAt: formatTime(p.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
