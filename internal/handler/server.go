// Package handler implements the HTTP handlers for the Bootcamp API.
// All handlers are methods on Server. Methods are split into files by concern
// (health.go, bootcamp.go, fault.go) but share the same Server struct so they
// can reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/bootcamp-api/internal/domain"
)

// BootcampsPath is the prefix the bootcamp resource is mounted under.
const BootcampsPath = "/api/v1/bootcamps"

// BootcampServicer defines the business operations the bootcamp handlers
// depend on. Defining the interface here, in the consumer package, lets
// handler tests inject a mock without touching a store or geocoder.
type BootcampServicer interface {
	List(ctx context.Context) ([]domain.Bootcamp, error)
	GetByID(ctx context.Context, id string) (domain.Bootcamp, error)
	Create(ctx context.Context, b domain.Bootcamp) (domain.Bootcamp, error)
	Update(ctx context.Context, id string, patch domain.BootcampPatch) (domain.Bootcamp, error)
	Delete(ctx context.Context, id string) (domain.Bootcamp, error)
	ListInRadius(ctx context.Context, zipcode string, miles float64) ([]domain.Bootcamp, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	bootcamps BootcampServicer
	log       *slog.Logger
}

// NewServer constructs the Server. A nil logger falls back to slog.Default.
func NewServer(bootcamps BootcampServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{bootcamps: bootcamps, log: log}
}

// RegisterRoutes adds every API route to r. Unknown paths and methods are
// answered with the same error envelope as handler failures.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route(BootcampsPath, func(r chi.Router) {
		// radius must be registered before /{id}
		r.Get("/radius/{zipcode}/{distance}", s.wrap(s.BootcampsInRadius))
		r.Get("/", s.wrap(s.ListBootcamps))
		r.Post("/", s.wrap(s.CreateBootcamp))
		r.Get("/{id}", s.wrap(s.GetBootcamp))
		r.Put("/{id}", s.wrap(s.UpdateBootcamp))
		r.Delete("/{id}", s.wrap(s.DeleteBootcamp))
	})

	r.NotFound(s.wrap(func(_ http.ResponseWriter, r *http.Request) error {
		return domain.NewError("Route not found: "+r.URL.Path, http.StatusNotFound)
	}))
	r.MethodNotAllowed(s.wrap(func(_ http.ResponseWriter, r *http.Request) error {
		return domain.NewError("Method "+r.Method+" not allowed", http.StatusMethodNotAllowed)
	}))
}

// Routes returns a fresh chi router with every API route registered.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	s.RegisterRoutes(r)
	return r
}
