// Package service contains the business logic for the Bootcamp API.
// Services validate inputs, enforce business rules, and orchestrate repo and
// geocoder calls. No SQL or BSON lives here; services depend on interfaces.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/bootcamp-api/internal/domain"
	"github.com/pkordes/bootcamp-api/internal/geocode"
	"github.com/pkordes/bootcamp-api/internal/repo"
)

// BootcampService implements business logic for Bootcamp operations.
type BootcampService struct {
	repo     repo.BootcampRepo
	geocoder geocode.Geocoder
}

// NewBootcampService constructs a BootcampService backed by the provided repo
// and geocoder.
func NewBootcampService(r repo.BootcampRepo, g geocode.Geocoder) *BootcampService {
	return &BootcampService{repo: r, geocoder: g}
}

// List returns all bootcamps. Always returns a non-nil slice.
func (s *BootcampService) List(ctx context.Context) ([]domain.Bootcamp, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.BootcampService.List: %w", err)
	}
	if out == nil {
		return []domain.Bootcamp{}, nil
	}
	return out, nil
}

// GetByID returns a single bootcamp.
// Returns domain.ErrNotFound if it does not exist.
func (s *BootcampService) GetByID(ctx context.Context, id string) (domain.Bootcamp, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("service.BootcampService.GetByID: %w", err)
	}
	return b, nil
}

// Create validates the bootcamp, derives its slug, geocodes its address into
// Location, then persists it.
// Returns domain.ValidationError for invalid input or an address the geocoder
// cannot place, and domain.ErrDuplicate if the name is taken.
func (s *BootcampService) Create(ctx context.Context, b domain.Bootcamp) (domain.Bootcamp, error) {
	b.Name = strings.TrimSpace(b.Name)
	if b.Photo == "" {
		b.Photo = domain.DefaultPhoto
	}
	if err := validateBootcamp(b); err != nil {
		return domain.Bootcamp{}, err
	}
	b.Slug = Slugify(b.Name)

	results, err := s.geocoder.Geocode(ctx, b.Address)
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("service.BootcampService.Create: geocode: %w", err)
	}
	if len(results) == 0 {
		return domain.Bootcamp{}, domain.ValidationError{Messages: []string{"Please add a valid address"}}
	}
	loc := results[0].Location()
	b.Location = &loc

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("service.BootcampService.Create: %w", err)
	}
	return created, nil
}

// Update validates the fields present in patch and applies them.
// The slug and location keep the values derived at create time.
// Returns domain.ErrNotFound if the bootcamp does not exist.
func (s *BootcampService) Update(ctx context.Context, id string, patch domain.BootcampPatch) (domain.Bootcamp, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if err := validatePatch(patch); err != nil {
		return domain.Bootcamp{}, err
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("service.BootcampService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a bootcamp and returns the deleted record.
// Returns domain.ErrNotFound if it does not exist.
func (s *BootcampService) Delete(ctx context.Context, id string) (domain.Bootcamp, error) {
	b, err := s.repo.Delete(ctx, id)
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("service.BootcampService.Delete: %w", err)
	}
	return b, nil
}

// ListInRadius returns the bootcamps within miles of the first geocoding
// result for zipcode. Always returns a non-nil slice.
// Returns domain.ErrNoGeocodeResult if the zipcode cannot be placed.
func (s *BootcampService) ListInRadius(ctx context.Context, zipcode string, miles float64) ([]domain.Bootcamp, error) {
	if miles < 0 {
		return nil, domain.ValidationError{Messages: []string{"Distance must be a non-negative number"}}
	}
	results, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, fmt.Errorf("service.BootcampService.ListInRadius: geocode: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("service.BootcampService.ListInRadius: %q: %w", zipcode, domain.ErrNoGeocodeResult)
	}
	center := domain.GeoPoint{Lat: results[0].Latitude, Lng: results[0].Longitude}

	out, err := s.repo.ListWithinRadius(ctx, center, domain.RadiusFromMiles(miles))
	if err != nil {
		return nil, fmt.Errorf("service.BootcampService.ListInRadius: %w", err)
	}
	if out == nil {
		return []domain.Bootcamp{}, nil
	}
	return out, nil
}
