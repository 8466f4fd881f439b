// Package geocode resolves postal codes and street addresses to coordinates.
//
// The Geocoder interface has three implementations meant to be stacked:
// MapQuest talks to the provider over HTTP, Guarded fails fast through a
// circuit breaker while the provider is down, and Cache keeps recent answers
// in memory and collapses concurrent lookups of the same query.
package geocode

import (
	"context"
	"fmt"

	"github.com/pkordes/bootcamp-api/internal/domain"
)

// Geocoder looks up candidate locations for a free-form query.
// An empty result is not an error.
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]domain.GeoResult, error)
}

// New builds the provider client named by provider.
func New(provider, baseURL, apiKey string) (Geocoder, error) {
	switch provider {
	case "mapquest":
		return NewMapQuest(baseURL, apiKey, nil), nil
	default:
		return nil, fmt.Errorf("geocode.New: unsupported provider %q", provider)
	}
}
