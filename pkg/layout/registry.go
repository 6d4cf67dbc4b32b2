package layout

import (
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/errors"
)

// Registry owns one instance of every strategy and tracks the active mode
// plus the most recent placement.
//
// Recompute swaps the placed slice under a mutex so readers (HitTest,
// Current) never observe a half-built layout. Readers get the slice header
// by value; placements are never mutated after publication.
type Registry struct {
	mu         sync.RWMutex
	strategies map[Mode]Strategy
	active     Mode
	placed     []Placed
	width      float64
	height     float64
	logger     *log.Logger
}

// NewRegistry builds a registry holding every strategy, constructed from the
// given config at the given viewport size. The grid mode starts active.
func NewRegistry(cfg Config, width, height float64, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	r := &Registry{
		strategies: map[Mode]Strategy{},
		active:     ModeGrid,
		width:      width,
		height:     height,
		logger:     logger,
	}
	for _, s := range buildStrategies(cfg, width, height) {
		r.strategies[s.Mode()] = s
	}
	return r
}

// buildStrategies constructs one instance per mode.
func buildStrategies(cfg Config, w, h float64) []Strategy {
	return []Strategy{
		NewGrid(cfg, w, h),
		NewMassOrder(cfg, w, h),
		NewLinear(cfg, w, h, "mass", Horizontal),
		NewStandardGrid(cfg, w, h),
		NewSplit(cfg, w, h),

		NewPolarity(cfg, w, h),
		NewGeometry(cfg, w, h),
		NewBondType(cfg, w, h),
		NewState(cfg, w, h),
		NewCharge(cfg, w, h),
		NewStability(cfg, w, h),
		NewCategory(cfg, w, h),
		NewDipole(cfg, w, h),

		NewPhase(cfg, w, h),
		NewDensity(cfg, w, h),
		NewChargeMass(cfg, w, h),

		NewCircular(cfg, w, h),
		NewMassSpiral(cfg, w, h),
		NewForceNetwork(cfg, w, h),
		NewEightfold(cfg, w, h),

		NewBondComplexity(cfg, w, h),
		NewQuarkTree(cfg, w, h),
		NewBaryonMeson(cfg, w, h),
	}
}

// Modes returns the registered modes in sorted order.
func (r *Registry) Modes() []Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	modes := make([]Mode, 0, len(r.strategies))
	for m := range r.strategies {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

// Active returns the currently selected mode.
func (r *Registry) Active() Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// SetActive switches the active mode. The placement is not recomputed;
// callers follow up with Recompute.
func (r *Registry) SetActive(mode Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strategies[mode]; !ok {
		return errors.New(errors.ErrCodeInvalidMode, "unknown layout mode: %s", mode)
	}
	r.active = mode
	return nil
}

// Strategy returns the strategy registered for a mode.
func (r *Registry) Strategy(mode Mode) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[mode]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidMode, "unknown layout mode: %s", mode)
	}
	return s, nil
}

// Resize updates the viewport dimensions on every strategy. The placement is
// stale afterwards until Recompute runs.
func (r *Registry) Resize(width, height float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = width
	r.height = height
	for _, s := range r.strategies {
		s.UpdateDimensions(width, height)
	}
}

// Recompute runs the active strategy over the entities and publishes the new
// placement.
func (r *Registry) Recompute(entities []entity.Entity) []Placed {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.strategies[r.active]
	placed := s.Layout(entities)
	r.placed = placed
	r.logger.Debug("layout recomputed",
		"mode", r.active,
		"entities", len(entities),
		"placed", len(placed))
	return placed
}

// Current returns the last published placement.
func (r *Registry) Current() []Placed {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.placed
}

// HitTest finds the card at content coordinates (x, y) in the current
// placement.
func (r *Registry) HitTest(x, y float64) (*Placed, bool) {
	r.mu.RLock()
	s := r.strategies[r.active]
	placed := r.placed
	r.mu.RUnlock()
	return s.EntityAt(x, y, placed)
}

// ContentHeight reports the scrollable height of the current placement.
func (r *Registry) ContentHeight() float64 {
	r.mu.RLock()
	s := r.strategies[r.active]
	placed := r.placed
	r.mu.RUnlock()
	return s.ContentHeight(placed)
}

// Headers returns the group headers of the current placement.
func (r *Registry) Headers() []GroupHeader {
	r.mu.RLock()
	s := r.strategies[r.active]
	placed := r.placed
	r.mu.RUnlock()
	return s.GroupHeaders(placed)
}

// Result snapshots the current placement into a serializable Result.
func (r *Registry) Result() Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.strategies[r.active]
	return Result{
		Mode:    r.active,
		Width:   r.width,
		Height:  r.height,
		Placed:  r.placed,
		Headers: s.GroupHeaders(r.placed),
	}
}
