package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainunits "stayhub/internal/domain/units"
)

type UnitRepository struct {
	col *mongo.Collection
}

func NewUnitRepository(db *mongo.Database) *UnitRepository {
	return &UnitRepository{col: db.Collection("agg_unit")}
}

func (r *UnitRepository) ByID(ctx context.Context, id domainunits.UnitID) (*domainunits.Unit, error) {
	var doc unitDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainunits.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UnitRepository) Save(ctx context.Context, u *domainunits.Unit) error {
	doc := newUnitDocument(u)
	filter := bson.M{"_id": doc.ID, "version": u.Version}
	doc.Version = u.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	u.Version = doc.Version
	return nil
}

func (r *UnitRepository) List(ctx context.Context) ([]*domainunits.Unit, error) {
	return r.find(ctx, bson.M{})
}

func (r *UnitRepository) ListByHost(ctx context.Context, host domainunits.HostID) ([]*domainunits.Unit, error) {
	return r.find(ctx, bson.M{"host_id": string(host)})
}

func (r *UnitRepository) find(ctx context.Context, filter bson.M) ([]*domainunits.Unit, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainunits.Unit, 0)
	for cur.Next(ctx) {
		var doc unitDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type unitDocument struct {
	ID        string   `bson:"_id"`
	HostID    string   `bson:"host_id"`
	Name      string   `bson:"name"`
	Location  string   `bson:"location"`
	MinGuests int      `bson:"min_guests"`
	MaxGuests int      `bson:"max_guests"`
	Tags      []string `bson:"tags"`
	Basis     string   `bson:"basis"`
	Photos    []string `bson:"photos"`
	Deleted   bool     `bson:"deleted"`
	CreatedAt int64    `bson:"created_at"`
	UpdatedAt int64    `bson:"updated_at"`
	Version   int64    `bson:"version"`
}

func newUnitDocument(u *domainunits.Unit) unitDocument {
	return unitDocument{
		ID:        string(u.ID),
		HostID:    string(u.Host),
		Name:      u.Name,
		Location:  u.Location,
		MinGuests: u.MinGuests,
		MaxGuests: u.MaxGuests,
		Tags:      u.Tags,
		Basis:     string(u.Basis),
		Photos:    u.Photos,
		Deleted:   u.Deleted,
		CreatedAt: u.CreatedAt.UnixMilli(),
		UpdatedAt: u.UpdatedAt.UnixMilli(),
		Version:   u.Version,
	}
}

func (d unitDocument) toAggregate() *domainunits.Unit {
	return &domainunits.Unit{
		ID:        domainunits.UnitID(d.ID),
		Host:      domainunits.HostID(d.HostID),
		Name:      d.Name,
		Location:  d.Location,
		MinGuests: d.MinGuests,
		MaxGuests: d.MaxGuests,
		Tags:      d.Tags,
		Basis:     domainunits.PriceBasis(d.Basis),
		Photos:    d.Photos,
		Deleted:   d.Deleted,
		CreatedAt: dayToTime(d.CreatedAt),
		UpdatedAt: dayToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

var _ domainunits.Repository = (*UnitRepository)(nil)
