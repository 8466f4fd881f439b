// Package mongorepo is the MongoDB implementation of repo.BootcampRepo.
// Radius queries use the store's native $geoWithin/$centerSphere predicate
// over a 2dsphere index.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/bootcamp-api/internal/domain"
	"github.com/pkordes/bootcamp-api/internal/repo"
)

// Collection is the name of the bootcamps collection.
const Collection = "bootcamps"

// Repo stores bootcamps in a MongoDB collection.
type Repo struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ repo.BootcampRepo = (*Repo)(nil)

// New returns a Repo over the bootcamps collection of db.
func New(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection(Collection), now: time.Now}
}

// EnsureIndexes creates the 2dsphere index radius queries need and the
// unique index on name. Safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(Collection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("mongorepo.EnsureIndexes: %w", err)
	}
	return nil
}

// Create inserts b and returns it with its new ObjectID.
func (r *Repo) Create(ctx context.Context, b domain.Bootcamp) (domain.Bootcamp, error) {
	doc := toDoc(b)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = r.now().UTC().Truncate(time.Millisecond)

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Bootcamp{}, fmt.Errorf("mongorepo.Repo.Create: %w", mapMongoError(err))
	}
	return doc.toDomain(), nil
}

// GetByID finds a bootcamp by ObjectID hex string.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Bootcamp, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("mongorepo.Repo.GetByID: %w", domain.ErrNotFound)
	}

	var doc bootcampDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return domain.Bootcamp{}, fmt.Errorf("mongorepo.Repo.GetByID: %w", mapMongoError(err))
	}
	return doc.toDomain(), nil
}

// List returns every bootcamp in insertion order.
func (r *Repo) List(ctx context.Context) ([]domain.Bootcamp, error) {
	out, err := r.find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongorepo.Repo.List: %w", err)
	}
	return out, nil
}

// ListWithinRadius returns bootcamps inside the spherical cap centred on
// center with the given angular radius in radians.
func (r *Repo) ListWithinRadius(ctx context.Context, center domain.GeoPoint, radius float64) ([]domain.Bootcamp, error) {
	filter := bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{center.Lng, center.Lat}, radius},
			},
		},
	}

	out, err := r.find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongorepo.Repo.ListWithinRadius: %w", err)
	}
	return out, nil
}

// Update applies the set fields of p and returns the document after the update.
func (r *Repo) Update(ctx context.Context, id string, p domain.BootcampPatch) (domain.Bootcamp, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("mongorepo.Repo.Update: %w", domain.ErrNotFound)
	}

	if p.IsEmpty() {
		// MongoDB rejects an empty $set; nothing to change.
		return r.GetByID(ctx, id)
	}
	set := patchToSet(p)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bootcampDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("mongorepo.Repo.Update: %w", mapMongoError(err))
	}
	return doc.toDomain(), nil
}

// Delete removes a bootcamp and returns the removed document.
func (r *Repo) Delete(ctx context.Context, id string) (domain.Bootcamp, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Bootcamp{}, fmt.Errorf("mongorepo.Repo.Delete: %w", domain.ErrNotFound)
	}

	var doc bootcampDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return domain.Bootcamp{}, fmt.Errorf("mongorepo.Repo.Delete: %w", mapMongoError(err))
	}
	return doc.toDomain(), nil
}

func (r *Repo) find(ctx context.Context, filter any) ([]domain.Bootcamp, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []bootcampDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	out := make([]domain.Bootcamp, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// mapMongoError translates driver errors into domain sentinels.
func mapMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
	default:
		return err
	}
}
