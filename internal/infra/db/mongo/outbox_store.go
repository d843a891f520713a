package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "stayhub/internal/app/outbox"
	infraoutbox "stayhub/internal/infra/outbox"
)

const (
	outboxStatusPending = "PENDING"
	outboxStatusSent    = "SENT"
	outboxStatusFailed  = "FAILED"
)

// OutboxStore persists event records alongside aggregate writes and serves
// them to the relay worker. Claiming flips a claimed_at marker so a crashed
// worker's claims expire and get retried.
type OutboxStore struct {
	col        *mongo.Collection
	claimLease time.Duration
}

func NewOutboxStore(db *mongo.Database) *OutboxStore {
	return &OutboxStore{col: db.Collection("outbox_events"), claimLease: 30 * time.Second}
}

func (s *OutboxStore) Add(ctx context.Context, record appoutbox.EventRecord) error {
	doc := outboxDocument{
		ID:         record.ID,
		Name:       record.Name,
		Payload:    record.Payload,
		OccurredAt: record.OccurredAt.UnixMilli(),
		Aggregate:  record.Aggregate,
		Headers:    record.Headers,
		Status:     outboxStatusPending,
		CreatedAt:  time.Now().UnixMilli(),
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

func (s *OutboxStore) Claim(ctx context.Context, limit int) ([]appoutbox.EventRecord, error) {
	cutoff := time.Now().Add(-s.claimLease).UnixMilli()
	filter := bson.M{
		"status": bson.M{"$in": []string{outboxStatusPending, outboxStatusFailed}},
		"$or": []bson.M{
			{"claimed_at": bson.M{"$exists": false}},
			{"claimed_at": bson.M{"$lt": cutoff}},
		},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	now := time.Now().UnixMilli()
	out := make([]appoutbox.EventRecord, 0, limit)
	for cur.Next(ctx) {
		var doc outboxDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		res, err := s.col.UpdateOne(ctx, claimFilter(doc.ID, doc.ClaimedAt),
			bson.M{"$set": bson.M{"claimed_at": now}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			continue
		}
		out = append(out, appoutbox.EventRecord{
			ID:         doc.ID,
			Name:       doc.Name,
			Payload:    doc.Payload,
			OccurredAt: dayToTime(doc.OccurredAt),
			Aggregate:  doc.Aggregate,
			Headers:    doc.Headers,
		})
	}
	return out, cur.Err()
}

// claimFilter is the CAS predicate for taking a record. It has to mirror the
// Claim query: a never-claimed record stores no claimed_at field at all, so an
// equality match on the decoded zero value alone would never hit it.
func claimFilter(id string, claimedAt int64) bson.M {
	return bson.M{
		"_id": id,
		"$or": []bson.M{
			{"claimed_at": bson.M{"$exists": false}},
			{"claimed_at": claimedAt},
		},
	}
}

func (s *OutboxStore) MarkSent(ctx context.Context, id string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"status": outboxStatusSent, "sent_at": time.Now().UnixMilli()},
		"$unset": bson.M{"claimed_at": ""},
	})
	return err
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"status": outboxStatusFailed},
		"$unset": bson.M{"claimed_at": ""},
		"$inc":   bson.M{"attempts": 1},
	})
	return err
}

type outboxDocument struct {
	ID         string            `bson:"_id"`
	Name       string            `bson:"name"`
	Payload    []byte            `bson:"payload"`
	OccurredAt int64             `bson:"occurred_at"`
	Aggregate  string            `bson:"aggregate"`
	Headers    map[string]string `bson:"headers"`
	Status     string            `bson:"status"`
	Attempts   int               `bson:"attempts"`
	CreatedAt  int64             `bson:"created_at"`
	ClaimedAt  int64             `bson:"claimed_at,omitempty"`
	SentAt     int64             `bson:"sent_at,omitempty"`
}

var _ appoutbox.Outbox = (*OutboxStore)(nil)
var _ infraoutbox.Store = (*OutboxStore)(nil)
