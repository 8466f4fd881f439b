// Package repo contains all database access logic for the Bootcamp API.
// It defines the BootcampRepo interface and its Postgres implementation; the
// MongoDB implementation lives in the mongorepo subpackage.
// No business logic lives here, only queries and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/bootcamp-api/internal/domain"
)

// pgUniqueViolation is the SQLSTATE Postgres reports for a unique constraint violation.
const pgUniqueViolation = "23505"

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BootcampRepo defines the persistence operations for bootcamps.
// The service layer depends on this interface, not on a concrete store.
type BootcampRepo interface {
	// Create inserts a new bootcamp and returns the persisted record with
	// store-generated id and created_at populated.
	// Returns domain.ErrDuplicate if the name is already taken.
	Create(ctx context.Context, b domain.Bootcamp) (domain.Bootcamp, error)

	// GetByID retrieves a single bootcamp.
	// Returns domain.ErrNotFound if it does not exist or id is malformed.
	GetByID(ctx context.Context, id string) (domain.Bootcamp, error)

	// List returns all bootcamps, oldest first.
	List(ctx context.Context) ([]domain.Bootcamp, error)

	// ListWithinRadius returns bootcamps whose location lies inside the
	// spherical cap centred on center with the given angular radius (radians).
	ListWithinRadius(ctx context.Context, center domain.GeoPoint, radius float64) ([]domain.Bootcamp, error)

	// Update applies the non-nil fields of patch and returns the post-update
	// record. Returns domain.ErrNotFound if the bootcamp does not exist.
	Update(ctx context.Context, id string, patch domain.BootcampPatch) (domain.Bootcamp, error)

	// Delete removes a bootcamp and returns the deleted record.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) (domain.Bootcamp, error)
}

// pgBootcampRepo is the Postgres implementation of BootcampRepo.
type pgBootcampRepo struct {
	db db
}

// NewBootcampRepo constructs a BootcampRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewBootcampRepo(db db) BootcampRepo {
	return &pgBootcampRepo{db: db}
}

const bootcampColumns = `
	id, name, slug, description, website, phone, email, address,
	location_lng, location_lat, formatted_address, street, city, state, zipcode, country,
	careers, average_rating, average_cost, photo,
	housing, job_assistance, job_guarantee, accept_gi, created_at`

// Create inserts a new bootcamp row and returns the full persisted record.
func (r *pgBootcampRepo) Create(ctx context.Context, b domain.Bootcamp) (domain.Bootcamp, error) {
	const q = `
		INSERT INTO bootcamps (
			name, slug, description, website, phone, email, address,
			location_lng, location_lat, formatted_address, street, city, state, zipcode, country,
			careers, average_rating, average_cost, photo,
			housing, job_assistance, job_guarantee, accept_gi)
		VALUES (
			@name, @slug, @description, @website, @phone, @email, @address,
			@lng, @lat, @formatted_address, @street, @city, @state, @zipcode, @country,
			@careers, @average_rating, @average_cost, @photo,
			@housing, @job_assistance, @job_guarantee, @accept_gi)
		RETURNING ` + bootcampColumns

	careers := b.Careers
	if careers == nil {
		careers = []string{}
	}

	args := pgx.NamedArgs{
		"name":           b.Name,
		"slug":           b.Slug,
		"description":    b.Description,
		"website":        b.Website,
		"phone":          b.Phone,
		"email":          b.Email,
		"address":        b.Address,
		"careers":        careers,
		"average_rating": b.AverageRating, // nil becomes NULL
		"average_cost":   b.AverageCost,
		"photo":          b.Photo,
		"housing":        b.Housing,
		"job_assistance": b.JobAssistance,
		"job_guarantee":  b.JobGuarantee,
		"accept_gi":      b.AcceptGi,
	}
	addLocationArgs(args, b.Location)

	result, err := scanBootcamp(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("repo.BootcampRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

// GetByID retrieves a bootcamp by primary key.
func (r *pgBootcampRepo) GetByID(ctx context.Context, id string) (domain.Bootcamp, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("repo.BootcampRepo.GetByID: %w", domain.ErrNotFound)
	}

	q := `SELECT ` + bootcampColumns + ` FROM bootcamps WHERE id = @id`

	result, err := scanBootcamp(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": uid}))
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("repo.BootcampRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all bootcamps ordered by created_at ascending.
func (r *pgBootcampRepo) List(ctx context.Context) ([]domain.Bootcamp, error) {
	q := `SELECT ` + bootcampColumns + ` FROM bootcamps ORDER BY created_at, id`

	out, err := r.query(ctx, q, pgx.NamedArgs{})
	if err != nil {
		return nil, fmt.Errorf("repo.BootcampRepo.List: %w", err)
	}
	return out, nil
}

// ListWithinRadius selects rows whose great-circle central angle to center
// (spherical law of cosines) is at most radius. The cosine is clamped to
// [-1, 1] so rounding at the centre point cannot push acos out of domain.
func (r *pgBootcampRepo) ListWithinRadius(ctx context.Context, center domain.GeoPoint, radius float64) ([]domain.Bootcamp, error) {
	q := `
		SELECT ` + bootcampColumns + `
		FROM bootcamps
		WHERE location_lat IS NOT NULL
		  AND acos(LEAST(1.0, GREATEST(-1.0,
		        sin(radians(@lat::float8)) * sin(radians(location_lat)) +
		        cos(radians(@lat::float8)) * cos(radians(location_lat)) *
		        cos(radians(location_lng - @lng::float8))
		      ))) <= @radius::float8
		ORDER BY created_at, id`

	args := pgx.NamedArgs{"lat": center.Lat, "lng": center.Lng, "radius": radius}

	out, err := r.query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.BootcampRepo.ListWithinRadius: %w", err)
	}
	return out, nil
}

// Update writes only the patch fields that are set. COALESCE keeps the
// stored value for every NULL parameter.
func (r *pgBootcampRepo) Update(ctx context.Context, id string, p domain.BootcampPatch) (domain.Bootcamp, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("repo.BootcampRepo.Update: %w", domain.ErrNotFound)
	}
	if p.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	q := `
		UPDATE bootcamps
		SET name           = COALESCE(@name::text, name),
		    description    = COALESCE(@description::text, description),
		    website        = COALESCE(@website::text, website),
		    phone          = COALESCE(@phone::text, phone),
		    email          = COALESCE(@email::text, email),
		    address        = COALESCE(@address::text, address),
		    careers        = COALESCE(@careers::text[], careers),
		    average_rating = COALESCE(@average_rating::float8, average_rating),
		    average_cost   = COALESCE(@average_cost::float8, average_cost),
		    photo          = COALESCE(@photo::text, photo),
		    housing        = COALESCE(@housing::bool, housing),
		    job_assistance = COALESCE(@job_assistance::bool, job_assistance),
		    job_guarantee  = COALESCE(@job_guarantee::bool, job_guarantee),
		    accept_gi      = COALESCE(@accept_gi::bool, accept_gi)
		WHERE id = @id
		RETURNING ` + bootcampColumns

	var careers any
	if p.Careers != nil {
		careers = *p.Careers
	}

	args := pgx.NamedArgs{
		"id":             uid,
		"name":           p.Name,
		"description":    p.Description,
		"website":        p.Website,
		"phone":          p.Phone,
		"email":          p.Email,
		"address":        p.Address,
		"careers":        careers,
		"average_rating": p.AverageRating,
		"average_cost":   p.AverageCost,
		"photo":          p.Photo,
		"housing":        p.Housing,
		"job_assistance": p.JobAssistance,
		"job_guarantee":  p.JobGuarantee,
		"accept_gi":      p.AcceptGi,
	}

	result, err := scanBootcamp(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("repo.BootcampRepo.Update: %w", mapPgError(err))
	}
	return result, nil
}

// Delete removes a bootcamp by primary key and returns the removed row.
func (r *pgBootcampRepo) Delete(ctx context.Context, id string) (domain.Bootcamp, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("repo.BootcampRepo.Delete: %w", domain.ErrNotFound)
	}

	q := `DELETE FROM bootcamps WHERE id = @id RETURNING ` + bootcampColumns

	result, err := scanBootcamp(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": uid}))
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("repo.BootcampRepo.Delete: %w", err)
	}
	return result, nil
}

// query runs q and scans every row. The result is never nil.
func (r *pgBootcampRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Bootcamp, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Bootcamp{}
	for rows.Next() {
		b, err := scanBootcamp(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// addLocationArgs flattens an optional location into the named args.
func addLocationArgs(args pgx.NamedArgs, loc *domain.Location) {
	if loc == nil {
		args["lng"], args["lat"] = nil, nil
		for _, k := range []string{"formatted_address", "street", "city", "state", "zipcode", "country"} {
			args[k] = ""
		}
		return
	}
	args["lng"] = loc.Coordinates[0]
	args["lat"] = loc.Coordinates[1]
	args["formatted_address"] = loc.FormattedAddress
	args["street"] = loc.Street
	args["city"] = loc.City
	args["state"] = loc.State
	args["zipcode"] = loc.Zipcode
	args["country"] = loc.Country
}

// mapPgError translates driver errors into domain sentinels.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanBootcamp to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanBootcamp maps a single row selected with bootcampColumns.
func scanBootcamp(s scanner) (domain.Bootcamp, error) {
	var (
		b        domain.Bootcamp
		id       pgtype.UUID
		lng, lat *float64
		loc      domain.Location
	)

	err := s.Scan(
		&id, &b.Name, &b.Slug, &b.Description, &b.Website, &b.Phone, &b.Email, &b.Address,
		&lng, &lat, &loc.FormattedAddress, &loc.Street, &loc.City, &loc.State, &loc.Zipcode, &loc.Country,
		&b.Careers, &b.AverageRating, &b.AverageCost, &b.Photo,
		&b.Housing, &b.JobAssistance, &b.JobGuarantee, &b.AcceptGi, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Bootcamp{}, domain.ErrNotFound
		}
		return domain.Bootcamp{}, err
	}

	b.ID = uuid.UUID(id.Bytes).String()
	if lng != nil && lat != nil {
		loc.Type = "Point"
		loc.Coordinates = [2]float64{*lng, *lat}
		b.Location = &loc
	}
	if b.Careers == nil {
		b.Careers = []string{}
	}
	return b, nil
}
