package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainpricing "stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/money"
	domainunits "stayhub/internal/domain/units"
)

// LedgerRepository stores one document per unit holding all its priced days.
// Ledgers replace wholesale on save; per-day deltas are not worth the
// bookkeeping at calendar scale.
type LedgerRepository struct {
	col      *mongo.Collection
	currency string
}

func NewLedgerRepository(db *mongo.Database, currency string) *LedgerRepository {
	return &LedgerRepository{col: db.Collection("agg_price_ledger"), currency: currency}
}

func (r *LedgerRepository) Ledger(ctx context.Context, id domainunits.UnitID) (*domainpricing.Ledger, error) {
	var doc ledgerDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainpricing.NewLedger(id, r.currency), nil
		}
		return nil, err
	}
	ledger := domainpricing.NewLedger(id, doc.Currency)
	for _, entry := range doc.Days {
		ledger.Restore(dayToTime(entry.Day), money.Money{Cents: entry.PriceCents, Currency: doc.Currency})
	}
	return ledger, nil
}

func (r *LedgerRepository) Save(ctx context.Context, ledger *domainpricing.Ledger) error {
	entries := ledger.Entries()
	doc := ledgerDocument{
		ID:       string(ledger.UnitID),
		Currency: ledger.Currency,
		Days:     make([]ledgerDayDocument, 0, len(entries)),
	}
	for _, entry := range entries {
		doc.Days = append(doc.Days, ledgerDayDocument{
			Day:        entry.Day.UnixMilli(),
			PriceCents: entry.Price.Cents,
		})
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

type ledgerDocument struct {
	ID       string              `bson:"_id"`
	Currency string              `bson:"currency"`
	Days     []ledgerDayDocument `bson:"days"`
}

type ledgerDayDocument struct {
	Day        int64 `bson:"day"`
	PriceCents int64 `bson:"price_cents"`
}

var _ domainpricing.LedgerRepository = (*LedgerRepository)(nil)
