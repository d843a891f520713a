package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	appoutbox "stayhub/internal/app/outbox"
)

// Store is the persistence side of the relay: pending records come from
// Claim, and every claimed record is settled with MarkSent or MarkFailed.
type Store interface {
	Claim(ctx context.Context, limit int) ([]appoutbox.EventRecord, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// Publisher forwards one envelope to the broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Envelope is the CloudEvents-shaped wire form of a relayed domain event.
type Envelope struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

// Worker drains the outbox in batches on a fixed poll interval. Failed
// publishes are marked and retried on a later pass; ordering is preserved
// within one aggregate because records are claimed in insertion order.
type Worker struct {
	Logger       *slog.Logger
	Store        Store
	Publisher    Publisher
	Source       string
	TopicPrefix  string
	BatchSize    int
	PollInterval time.Duration
}

func (w *Worker) Run(ctx context.Context) {
	interval := w.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.DrainOnce(ctx); err != nil && w.Logger != nil {
				w.Logger.Error("outbox drain failed", "error", err)
			}
		}
	}
}

// DrainOnce claims one batch and publishes it.
func (w *Worker) DrainOnce(ctx context.Context) error {
	limit := w.BatchSize
	if limit <= 0 {
		limit = 64
	}
	records, err := w.Store.Claim(ctx, limit)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := w.publish(ctx, record); err != nil {
			if w.Logger != nil {
				w.Logger.Warn("event publish failed", "event_id", record.ID, "event", record.Name, "error", err)
			}
			if markErr := w.Store.MarkFailed(ctx, record.ID); markErr != nil {
				return markErr
			}
			continue
		}
		if err := w.Store.MarkSent(ctx, record.ID); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) publish(ctx context.Context, record appoutbox.EventRecord) error {
	envelope := Envelope{
		SpecVersion:     "1.0",
		ID:              record.ID,
		Type:            record.Name,
		Source:          w.Source,
		Subject:         record.Aggregate,
		Time:            record.OccurredAt,
		DataContentType: "application/json",
		Data:            record.Payload,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return w.Publisher.Publish(ctx, w.topicFor(record.Name), record.Aggregate, payload, record.Headers)
}

// topicFor maps "booking.requested" to "<prefix>.booking": one topic per
// aggregate kind keeps per-aggregate ordering on a single partition key.
func (w *Worker) topicFor(name string) string {
	kind := name
	if idx := strings.IndexByte(name, '.'); idx > 0 {
		kind = name[:idx]
	}
	if w.TopicPrefix == "" {
		return kind
	}
	return w.TopicPrefix + "." + kind
}
