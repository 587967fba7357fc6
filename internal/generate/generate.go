// Package generate implements the history generation service: request
// validation, seed resolution, session synthesis, and the two operations
// (preview and full artifact generation) over one shared generation pass.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/tanwk/historygen/internal/catalog"
	"github.com/tanwk/historygen/internal/chromedb"
	"github.com/tanwk/historygen/internal/config"
	"github.com/tanwk/historygen/internal/model"
	"github.com/tanwk/historygen/internal/rng"
	"github.com/tanwk/historygen/internal/schedule"
)

// ErrInvalidInput marks caller mistakes (weeks out of range, bad limit).
// It never reaches the generation core.
var ErrInvalidInput = errors.New("invalid input")

// ErrInternal marks an invariant violation inside scheduling or synthesis.
// Output is never silently degraded; the operation fails instead.
var ErrInternal = errors.New("generation internal error")

// Request describes one generation run. A nil Seed means "draw one and
// report it". Reference anchors the end of the window; the zero value
// means time.Now in the configured timezone.
type Request struct {
	Weeks     int
	Seed      *int64
	Limit     int // preview only; 0 means the configured default
	Reference time.Time
}

// PreviewEntry is one projected visit, formatted for display.
type PreviewEntry struct {
	Time  string `json:"time"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Preview is the lightweight summary of a generation run.
type Preview struct {
	Seed        int64          `json:"seed"`
	Weeks       int            `json:"weeks"`
	TotalVisits int            `json:"total_visits"`
	Entries     []PreviewEntry `json:"preview"`
}

// Result carries the metadata of a produced artifact so callers can
// reproduce or report on the run without parsing the binary.
type Result struct {
	Seed        int64 `json:"seed"`
	Weeks       int   `json:"weeks"`
	TotalVisits int   `json:"total_visits"`
}

// Service owns the catalog, tuning, and planner for generation runs.
// It holds no per-request state; concurrent calls are independent. The
// entropy source only draws fresh seeds and is guarded by its own lock.
type Service struct {
	cfg     config.Config
	cat     *catalog.Catalog
	planner *schedule.Planner
	log     *slog.Logger
	loc     *time.Location

	mu      sync.Mutex
	entropy *rand.Rand
}

// NewService creates a Service with the given tuning.
func NewService(cfg config.Config, log *slog.Logger) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	return &Service{
		cfg:     cfg,
		cat:     catalog.Default(),
		planner: schedule.NewPlanner(cfg),
		log:     log,
		loc:     loc,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Preview generates the history for the request and projects a bounded,
// newest-first summary of it.
func (s *Service) Preview(ctx context.Context, req Request) (*Preview, error) {
	limit := req.Limit
	if limit == 0 {
		limit = s.cfg.PreviewLimit
	}
	if limit < 1 || limit > s.cfg.MaxPreviewLimit {
		return nil, fmt.Errorf("%w: limit %d outside [1,%d]", ErrInvalidInput, limit, s.cfg.MaxPreviewLimit)
	}

	h, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(h, limit, s.loc), nil
}

// Generate produces the binary history artifact on w and returns the run
// metadata. A failed write leaves no partial output behind.
func (s *Service) Generate(ctx context.Context, req Request, w io.Writer) (*Result, error) {
	h, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := chromedb.Write(ctx, h, w); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	return &Result{Seed: h.Seed, Weeks: h.Weeks, TotalVisits: h.TotalVisits()}, nil
}

// run executes the shared generation pass: validate, resolve the seed,
// plan sessions, synthesize visits, and check invariants.
func (s *Service) run(ctx context.Context, req Request) (*model.GeneratedHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Weeks < s.cfg.MinWeeks || req.Weeks > s.cfg.MaxWeeks {
		return nil, fmt.Errorf("%w: weeks %d outside [%d,%d]",
			ErrInvalidInput, req.Weeks, s.cfg.MinWeeks, s.cfg.MaxWeeks)
	}

	seed := s.resolveSeed(req.Seed)
	end := req.Reference
	if end.IsZero() {
		end = time.Now().In(s.loc)
	} else {
		end = end.In(s.loc)
	}
	end = end.Truncate(time.Second)

	eng := rng.New(seed)
	sessions, err := s.planner.Plan(eng, req.Weeks, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	h := &model.GeneratedHistory{Seed: seed, Weeks: req.Weeks}
	var nextID int64 = 1
	for i := range sessions {
		visits := s.synthesize(eng, &sessions[i], &nextID)
		h.Visits = append(h.Visits, visits...)
	}

	if err := s.checkInvariants(h); err != nil {
		return nil, err
	}
	s.log.Debug("generated history",
		"seed", seed, "weeks", req.Weeks,
		"sessions", len(sessions), "visits", h.TotalVisits())
	return h, nil
}

// resolveSeed returns the caller's seed, or draws a fresh human-copyable one.
func (s *Service) resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return 1 + s.entropy.Int63n(999999)
}

// checkInvariants verifies strict visit-time monotonicity and the per-week
// output bound. Violations are defects, not degradable output.
func (s *Service) checkInvariants(h *model.GeneratedHistory) error {
	if h.TotalVisits() > s.cfg.MaxVisitsPerWeek*h.Weeks {
		return fmt.Errorf("%w: %d visits exceed cap %d",
			ErrInternal, h.TotalVisits(), s.cfg.MaxVisitsPerWeek*h.Weeks)
	}
	for i := 1; i < len(h.Visits); i++ {
		if !h.Visits[i-1].VisitTime.Before(h.Visits[i].VisitTime) {
			return fmt.Errorf("%w: visit %d time not increasing", ErrInternal, h.Visits[i].ID)
		}
	}
	return nil
}
