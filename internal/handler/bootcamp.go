package handler

import (
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/bootcamp-api/internal/domain"
)

// ListBootcamps handles GET /api/v1/bootcamps.
func (s *Server) ListBootcamps(w http.ResponseWriter, r *http.Request) error {
	bootcamps, err := s.bootcamps.List(r.Context())
	if err != nil {
		return err
	}
	writeList(w, bootcamps)
	return nil
}

// GetBootcamp handles GET /api/v1/bootcamps/{id}.
func (s *Server) GetBootcamp(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	b, err := s.bootcamps.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return bootcampNotFound(id)
		}
		return err
	}
	writeItem(w, http.StatusOK, b)
	return nil
}

// CreateBootcamp handles POST /api/v1/bootcamps.
// Store-assigned and derived fields in the body (id, slug, location,
// createdAt) are ignored.
func (s *Server) CreateBootcamp(w http.ResponseWriter, r *http.Request) error {
	var in domain.BootcampPatch
	if err := readJSON(r, &in); err != nil {
		return err
	}
	created, err := s.bootcamps.Create(r.Context(), bootcampFromInput(in))
	if err != nil {
		return err
	}
	writeItem(w, http.StatusCreated, created)
	return nil
}

// UpdateBootcamp handles PUT /api/v1/bootcamps/{id}.
// Only fields present in the body are changed.
func (s *Server) UpdateBootcamp(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	var patch domain.BootcampPatch
	if err := readJSON(r, &patch); err != nil {
		return err
	}
	updated, err := s.bootcamps.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return bootcampNotFound(id)
		}
		return err
	}
	writeItem(w, http.StatusOK, updated)
	return nil
}

// DeleteBootcamp handles DELETE /api/v1/bootcamps/{id} and echoes the
// deleted record.
func (s *Server) DeleteBootcamp(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	deleted, err := s.bootcamps.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return bootcampNotFound(id)
		}
		return err
	}
	writeItem(w, http.StatusOK, deleted)
	return nil
}

// BootcampsInRadius handles GET /api/v1/bootcamps/radius/{zipcode}/{distance}.
// distance is in miles.
func (s *Server) BootcampsInRadius(w http.ResponseWriter, r *http.Request) error {
	zipcode := chi.URLParam(r, "zipcode")
	raw := chi.URLParam(r, "distance")

	var miles float64
	err := runtime.BindStyledParameterWithOptions("simple", "distance", raw, &miles, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Required:      true,
	})
	if err != nil || miles < 0 || math.IsNaN(miles) || math.IsInf(miles, 0) {
		return invalidDistance(raw)
	}

	bootcamps, err := s.bootcamps.ListInRadius(r.Context(), zipcode, miles)
	if err != nil {
		if errors.Is(err, domain.ErrNoGeocodeResult) {
			return zipcodeNotFound(zipcode)
		}
		return err
	}
	writeList(w, bootcamps)
	return nil
}

// bootcampFromInput builds a new record from the writable fields of a
// request body.
func bootcampFromInput(in domain.BootcampPatch) domain.Bootcamp {
	var b domain.Bootcamp
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&b.Name, in.Name)
	setString(&b.Description, in.Description)
	setString(&b.Website, in.Website)
	setString(&b.Phone, in.Phone)
	setString(&b.Email, in.Email)
	setString(&b.Address, in.Address)
	setString(&b.Photo, in.Photo)
	if in.Careers != nil {
		b.Careers = *in.Careers
	}
	b.AverageRating = in.AverageRating
	b.AverageCost = in.AverageCost
	setBool(&b.Housing, in.Housing)
	setBool(&b.JobAssistance, in.JobAssistance)
	setBool(&b.JobGuarantee, in.JobGuarantee)
	setBool(&b.AcceptGi, in.AcceptGi)
	return b
}
