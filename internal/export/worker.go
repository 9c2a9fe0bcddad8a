package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hondana/internal/amqp"
	"hondana/internal/core"
)

// SyncWorker consumes purchase events and mirrors the corresponding
// rows into the spreadsheet.
type SyncWorker struct {
	store    PurchaseGetter
	appender RowAppender
}

func NewSyncWorker(store PurchaseGetter, appender RowAppender) *SyncWorker {
	return &SyncWorker{
		store:    store,
		appender: appender,
	}
}

// HandleEvent processes a single purchase event. Delete events are
// acknowledged without spreadsheet work: the export is an append-only
// mirror, not a versioned history.
func (w *SyncWorker) HandleEvent(ctx context.Context, ev *amqp.PurchaseEvent) error {
	switch ev.Op {
	case amqp.OpCreated, amqp.OpUpdated:
		return w.appendCurrentRow(ctx, ev)
	case amqp.OpDeleted:
		slog.InfoContext(ctx, "Skipping spreadsheet update for deleted purchase",
			"id", ev.ID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown purchase event op",
			"op", ev.Op,
			"id", ev.ID)
		return nil
	}
}

func (w *SyncWorker) appendCurrentRow(ctx context.Context, ev *amqp.PurchaseEvent) error {
	p, err := w.store.GetPurchase(ctx, ev.UserID, ev.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// The purchase was deleted between the event and now.
			slog.WarnContext(ctx, "Purchase vanished before export",
				"id", ev.ID)
			return nil
		}
		return fmt.Errorf("load purchase %s: %w", ev.ID, err)
	}

	ref, err := w.appender.AppendPurchase(ctx, p)
	if err != nil {
		return fmt.Errorf("append purchase %s: %w", ev.ID, err)
	}

	slog.InfoContext(ctx, "Purchase exported",
		"id", p.ID,
		"title", p.Title,
		"row_ref", ref)
	return nil
}
