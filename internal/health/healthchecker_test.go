package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeChecker struct {
	name    string
	healthy atomic.Int32
}

func (f *fakeChecker) Name() string                               { return f.name }
func (f *fakeChecker) IsHealthy() bool                            { return f.healthy.Load() == 1 }
func (f *fakeChecker) Start(ctx context.Context, _ time.Duration) { /* no-op */ }

func TestService_Evaluate(t *testing.T) {
	a := &fakeChecker{name: "store"}
	b := &fakeChecker{name: "cache"}
	a.healthy.Store(1)

	svc := NewService(zerolog.Nop(), a, b)
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }
	if svc.IsHealthy() {
		t.Fatalf("service must read unhealthy before the first evaluation")
	}
	if snap := svc.Snapshot(); !snap.CheckedAt.IsZero() {
		t.Fatalf("unexpected snapshot before evaluation: %+v", snap)
	}

	snap := svc.Evaluate()
	if snap.Healthy || len(snap.Down) != 1 || snap.Down[0] != "cache" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if !snap.CheckedAt.Equal(at) {
		t.Fatalf("checkedAt = %v, want %v", snap.CheckedAt, at)
	}

	a.healthy.Store(0)
	if got := svc.Evaluate().Down; len(got) != 2 || got[0] != "cache" || got[1] != "store" {
		t.Fatalf("down not sorted: %v", got)
	}

	a.healthy.Store(1)
	b.healthy.Store(1)
	if !svc.Evaluate().Healthy || !svc.IsHealthy() {
		t.Fatalf("expected healthy after both components recover")
	}
	if svc.Snapshot().Down != nil {
		t.Fatalf("healthy snapshot lists down components: %v", svc.Snapshot().Down)
	}
}

func TestService_Start(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := &fakeChecker{name: "a"}
	a.healthy.Store(1)
	svc := NewService(zerolog.Nop(), a)
	go svc.Start(ctx, 10*time.Millisecond)
	waitTrue(t, svc.IsHealthy)

	a.healthy.Store(0)
	waitTrue(t, func() bool { return !svc.IsHealthy() })
}

type fakePinger struct{ fail atomic.Bool }

func (p *fakePinger) HealthPing(context.Context) error {
	if p.fail.Load() {
		return errors.New("down")
	}
	return nil
}

func TestPingChecker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &fakePinger{}
	c := NewPingChecker("cache", p, zerolog.Nop(), 0)
	if c.IsHealthy() {
		t.Fatalf("checker must start unhealthy")
	}
	go c.Start(ctx, 10*time.Millisecond)
	waitTrue(t, c.IsHealthy)

	p.fail.Store(true)
	waitTrue(t, func() bool { return !c.IsHealthy() })
}

func waitTrue(t *testing.T, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if pred() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before timeout")
}
