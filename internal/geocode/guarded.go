package geocode

import (
	"context"
	"errors"

	"github.com/pkordes/bootcamp-api/internal/domain"
	"github.com/pkordes/bootcamp-api/internal/resilience"
)

// Guarded routes lookups through a circuit breaker so an unavailable provider
// fails fast with resilience.ErrCircuitOpen.
type Guarded struct {
	next    Geocoder
	breaker *resilience.Breaker
}

// NewGuarded wraps next with breaker.
func NewGuarded(next Geocoder, breaker *resilience.Breaker) *Guarded {
	return &Guarded{next: next, breaker: breaker}
}

// Geocode calls next unless the breaker is open.
func (g *Guarded) Geocode(ctx context.Context, query string) ([]domain.GeoResult, error) {
	var out []domain.GeoResult
	err := g.breaker.Execute(func() error {
		var err error
		out, err = g.next.Geocode(ctx, query)
		return err
	}, callerFault)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// callerFault reports errors that say nothing about provider health:
// cancelled requests and 4xx answers to a bad query.
func callerFault(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}
