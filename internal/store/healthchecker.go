package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/health"
)

// healthLookupID never matches a story; looking it up proves the store answers.
const healthLookupID = "__health_check__"

// NewStoreHealthChecker returns a checker named "store" that pings s every
// interval once started. The checker reports unhealthy until its first
// successful ping.
func NewStoreHealthChecker(s Store, log zerolog.Logger, timeout time.Duration) *health.PingChecker {
	return health.NewPingChecker("store", storePinger{s}, log, timeout)
}

// storePinger pings stores that expose HealthPing and falls back to a
// lookup for those that don't.
type storePinger struct{ s Store }

func (p storePinger) HealthPing(ctx context.Context) error {
	if hp, ok := p.s.(health.HealthPinger); ok {
		return hp.HealthPing(ctx)
	}
	_, err := p.s.Stories().GetByID(ctx, healthLookupID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
