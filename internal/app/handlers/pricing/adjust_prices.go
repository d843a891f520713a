package pricing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stayhub/internal/app/commands"
	handlerunits "stayhub/internal/app/handlers/units"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/support"
	domainavailability "stayhub/internal/domain/availability"
	domainpricing "stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
	domainunits "stayhub/internal/domain/units"
)

const adjustPricesKey = "pricing.adjust"

// ErrPriceLocked rejects re-pricing of days already consumed by a pending or
// approved booking; frozen booking totals must keep matching the ledger they
// were quoted from.
var ErrPriceLocked = errors.New("pricing: day is consumed by an active booking")

// AssignmentInput is one (interval, price) pair of an adjust-price request,
// dates at calendar-day precision, both bounds inclusive.
type AssignmentInput struct {
	From       time.Time
	To         time.Time
	PriceCents int64
}

type AdjustPricesCommand struct {
	UnitID      string
	HostID      string
	Assignments []AssignmentInput
}

func (c AdjustPricesCommand) Key() string { return adjustPricesKey }

type AdjustPricesResult struct {
	UnitID     string `json:"unit_id"`
	PricedDays int    `json:"priced_days"`
}

type AdjustPricesHandler struct {
	Logger    *slog.Logger
	Units     domainunits.Repository
	Ledgers   domainpricing.LedgerRepository
	Calendars domainavailability.Repository
	Locker    *support.UnitLocker
	Currency  string
	Outbox    outbox.Outbox
	Encoder   outbox.EventEncoder
	Now       func() time.Time
}

func (h *AdjustPricesHandler) Handle(ctx context.Context, cmd AdjustPricesCommand) (*AdjustPricesResult, error) {
	unit, err := handlerunits.OwnedUnit(ctx, h.Units, cmd.UnitID, cmd.HostID)
	if err != nil {
		return nil, err
	}

	batch := make([]domainpricing.Assignment, 0, len(cmd.Assignments))
	for _, in := range cmd.Assignments {
		r, err := daterange.New(in.From, in.To)
		if err != nil {
			return nil, err
		}
		batch = append(batch, domainpricing.Assignment{
			Range: r,
			Price: money.Money{Cents: in.PriceCents, Currency: h.Currency},
		})
	}

	engine := domainpricing.NewEngine()
	// Validate before taking the unit lock so malformed batches never block
	// concurrent readers.
	if err := engine.Validate(batch); err != nil {
		return nil, err
	}

	unlock := h.Locker.Lock(unit.ID)
	defer unlock()

	calendar, err := h.Calendars.Calendar(ctx, unit.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range batch {
		if !calendar.IsFree(a.Range) {
			return nil, ErrPriceLocked
		}
	}

	ledger, err := h.Ledgers.Ledger(ctx, unit.ID)
	if err != nil {
		return nil, err
	}
	if err := engine.Apply(ledger, batch, h.now()); err != nil {
		return nil, err
	}
	if err := h.Ledgers.Save(ctx, ledger); err != nil {
		return nil, err
	}
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &engine.EventRecorder); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("prices adjusted", "unit_id", unit.ID, "assignments", len(batch), "priced_days", ledger.Len())
	}
	return &AdjustPricesResult{UnitID: cmd.UnitID, PricedDays: ledger.Len()}, nil
}

func (h *AdjustPricesHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[AdjustPricesCommand, *AdjustPricesResult] = (*AdjustPricesHandler)(nil)
