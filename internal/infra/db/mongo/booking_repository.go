package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "stayhub/internal/domain/booking"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
	domainunits "stayhub/internal/domain/units"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
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
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *BookingRepository) ListByUnit(ctx context.Context, unitID domainunits.UnitID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"unit_id": string(unitID)})
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"guest_id": guestID})
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainbooking.Booking, 0)
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID         string `bson:"_id"`
	UnitID     string `bson:"unit_id"`
	GuestID    string `bson:"guest_id"`
	From       int64  `bson:"from"`
	To         int64  `bson:"to"`
	Guests     int    `bson:"guests"`
	TotalCents int64  `bson:"total_cents"`
	Currency   string `bson:"currency"`
	State      string `bson:"state"`
	Deleted    bool   `bson:"deleted"`
	CreatedAt  int64  `bson:"created_at"`
	UpdatedAt  int64  `bson:"updated_at"`
	Version    int64  `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:         string(b.ID),
		UnitID:     string(b.UnitID),
		GuestID:    b.GuestID,
		From:       b.Range.From.UnixMilli(),
		To:         b.Range.To.UnixMilli(),
		Guests:     b.Guests,
		TotalCents: b.Total.Cents,
		Currency:   b.Total.Currency,
		State:      string(b.State),
		Deleted:    b.Deleted,
		CreatedAt:  b.CreatedAt.UnixMilli(),
		UpdatedAt:  b.UpdatedAt.UnixMilli(),
		Version:    b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:        domainbooking.BookingID(d.ID),
		UnitID:    domainunits.UnitID(d.UnitID),
		GuestID:   d.GuestID,
		Range:     daterange.DateRange{From: dayToTime(d.From), To: dayToTime(d.To)},
		Guests:    d.Guests,
		Total:     money.Money{Cents: d.TotalCents, Currency: d.Currency},
		State:     domainbooking.BookingState(d.State),
		Deleted:   d.Deleted,
		CreatedAt: dayToTime(d.CreatedAt),
		UpdatedAt: dayToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
