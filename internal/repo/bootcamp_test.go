package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/bootcamp-api/internal/domain"
	"github.com/pkordes/bootcamp-api/internal/repo"
	"github.com/pkordes/bootcamp-api/testutil"
)

// newTestRepo opens a transaction against the test database and returns a
// BootcampRepo backed by that transaction. The transaction is rolled back when
// the test finishes, giving free per-test isolation.
func newTestRepo(t *testing.T) repo.BootcampRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewBootcampRepo(tx)
}

// bootcampFixture returns a bootcamp located in Boston's South End (02118).
func bootcampFixture(name string) domain.Bootcamp {
	rating := 8.5
	return domain.Bootcamp{
		Name:          name,
		Slug:          "devworks-bootcamp",
		Description:   "Full stack web development",
		Website:       "https://devworks.com",
		Email:         "enroll@devworks.com",
		Address:       "233 Bay State Rd Boston MA 02215",
		Careers:       []string{"Web Development", "UI/UX"},
		AverageRating: &rating,
		Photo:         domain.DefaultPhoto,
		Housing:       true,
		Location: &domain.Location{
			Type:        "Point",
			Coordinates: [2]float64{-71.0726, 42.3428},
			City:        "Boston",
			Zipcode:     "02118",
		},
	}
}

func TestBootcampRepo_Create(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	input := bootcampFixture("Devworks Bootcamp")
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	_, parseErr := uuid.Parse(got.ID)
	assert.NoError(t, parseErr, "ID should be a DB-generated UUID")
	assert.Equal(t, input.Name, got.Name)
	assert.Equal(t, input.Careers, got.Careers)
	require.NotNil(t, got.AverageRating)
	assert.InDelta(t, 8.5, *got.AverageRating, 1e-9)
	assert.Nil(t, got.AverageCost)
	require.NotNil(t, got.Location)
	assert.Equal(t, input.Location.Coordinates, got.Location.Coordinates)
	assert.Equal(t, "Point", got.Location.Type)
	assert.True(t, got.Housing)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestBootcampRepo_Create_WithoutLocation(t *testing.T) {
	r := newTestRepo(t)

	input := bootcampFixture("Nowhere Bootcamp")
	input.Location = nil

	got, err := r.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Nil(t, got.Location)
}

func TestBootcampRepo_Create_DuplicateName(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.Create(ctx, bootcampFixture("Same Name"))
	require.NoError(t, err)

	_, err = r.Create(ctx, bootcampFixture("Same Name"))

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestBootcampRepo_GetByID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, bootcampFixture("Lookup Bootcamp"))
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
}

func TestBootcampRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.GetByID(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBootcampRepo_GetByID_MalformedID(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.GetByID(context.Background(), "5d713995b721c3bb38c1f5d0")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBootcampRepo_List(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.Create(ctx, bootcampFixture("First Bootcamp"))
	require.NoError(t, err)
	_, err = r.Create(ctx, bootcampFixture("Second Bootcamp"))
	require.NoError(t, err)

	list, err := r.List(ctx)

	require.NoError(t, err)
	var names []string
	for _, b := range list {
		names = append(names, b.Name)
	}
	assert.Contains(t, names, "First Bootcamp")
	assert.Contains(t, names, "Second Bootcamp")
}

func TestBootcampRepo_ListWithinRadius(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	near, err := r.Create(ctx, bootcampFixture("Near Bootcamp"))
	require.NoError(t, err)

	far := bootcampFixture("Far Bootcamp")
	far.Location = &domain.Location{Type: "Point", Coordinates: [2]float64{-118.2437, 34.0522}} // Los Angeles
	_, err = r.Create(ctx, far)
	require.NoError(t, err)

	center := domain.GeoPoint{Lat: 42.3467, Lng: -71.0972} // about 2 miles from near
	list, err := r.ListWithinRadius(ctx, center, domain.RadiusFromMiles(10))

	require.NoError(t, err)
	var ids, names []string
	for _, b := range list {
		ids = append(ids, b.ID)
		names = append(names, b.Name)
	}
	assert.Contains(t, ids, near.ID)
	assert.NotContains(t, names, "Far Bootcamp")
}

func TestBootcampRepo_ListWithinRadius_Empty(t *testing.T) {
	r := newTestRepo(t)

	// Middle of the South Pacific.
	list, err := r.ListWithinRadius(context.Background(), domain.GeoPoint{Lat: -48.87, Lng: -123.39}, domain.RadiusFromMiles(1))

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestBootcampRepo_Update_Partial(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, bootcampFixture("Patch Me"))
	require.NoError(t, err)

	housing := false
	cost := 12000.0
	careers := []string{"Data Science"}
	updated, err := r.Update(ctx, created.ID, domain.BootcampPatch{
		Housing:     &housing,
		AverageCost: &cost,
		Careers:     &careers,
	})

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Patch Me", updated.Name, "unset fields are preserved")
	assert.Equal(t, created.Description, updated.Description)
	assert.False(t, updated.Housing)
	require.NotNil(t, updated.AverageCost)
	assert.InDelta(t, 12000.0, *updated.AverageCost, 1e-9)
	assert.Equal(t, careers, updated.Careers)
}

func TestBootcampRepo_Update_NotFound(t *testing.T) {
	r := newTestRepo(t)

	name := "ghost"
	_, err := r.Update(context.Background(), uuid.NewString(), domain.BootcampPatch{Name: &name})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBootcampRepo_Update_EmptyPatch(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, bootcampFixture("Leave Me"))
	require.NoError(t, err)

	same, err := r.Update(ctx, created.ID, domain.BootcampPatch{})
	require.NoError(t, err)
	assert.Equal(t, created.ID, same.ID)
	assert.Equal(t, created.Name, same.Name)
	assert.Equal(t, created.Housing, same.Housing)

	_, err = r.Update(ctx, uuid.NewString(), domain.BootcampPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound, "empty patch still reports a missing id")
}

func TestBootcampRepo_Delete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, bootcampFixture("Delete Me"))
	require.NoError(t, err)

	deleted, err := r.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "bootcamp should be gone after delete")

	_, err = r.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "second delete reports not found")
}
