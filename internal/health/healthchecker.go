// Package health tracks whether the components behind the story service
// (store, cache, object storage) are answering.
package health

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecker reports the cached health of one component.
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// Snapshot is one evaluation of every component. Down is sorted.
type Snapshot struct {
	Healthy   bool      `json:"healthy"`
	Down      []string  `json:"down,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Service folds component checkers into the service status served on
// /api/health. It reads unhealthy until the first Evaluate.
type Service struct {
	deps []HealthChecker
	log  zerolog.Logger
	last atomic.Pointer[Snapshot]
	now  func() time.Time
}

func NewService(log zerolog.Logger, deps ...HealthChecker) *Service {
	return &Service{deps: deps, log: log, now: time.Now}
}

func (s *Service) IsHealthy() bool {
	snap := s.last.Load()
	return snap != nil && snap.Healthy
}

// Snapshot returns the latest evaluation, or the zero Snapshot before the first.
func (s *Service) Snapshot() Snapshot {
	if snap := s.last.Load(); snap != nil {
		return *snap
	}
	return Snapshot{}
}

// Evaluate reads every checker, publishes the result and logs when the
// service flips between up and down or the set of failing components changes.
func (s *Service) Evaluate() Snapshot {
	snap := Snapshot{CheckedAt: s.now()}
	for _, c := range s.deps {
		if !c.IsHealthy() {
			snap.Down = append(snap.Down, c.Name())
		}
	}
	slices.Sort(snap.Down)
	snap.Healthy = len(snap.Down) == 0

	prev := s.last.Swap(&snap)
	switch {
	case prev != nil && prev.Healthy == snap.Healthy && slices.Equal(prev.Down, snap.Down):
	case snap.Healthy:
		s.log.Info().Msg("story service healthy")
	default:
		s.log.Error().Strs("down", snap.Down).Msg("story service unhealthy")
	}
	return snap
}

// Start evaluates now and then every interval until ctx ends.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Evaluate()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Evaluate()
		}
	}
}
