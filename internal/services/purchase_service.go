// Package services orchestrates purchase operations across the SQLite
// store and the optional event queue.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"hondana/internal/amqp"
	"hondana/internal/core"
)

// PurchaseStore is the persistence surface the service needs. Satisfied
// by *storage.SQLiteRepository.
type PurchaseStore interface {
	CreatePurchase(ctx context.Context, userID string, in core.PurchaseInput) (core.Purchase, error)
	UpdatePurchase(ctx context.Context, userID, id string, in core.PurchaseInput) error
	DeletePurchase(ctx context.Context, userID, id string) error
	GetPurchase(ctx context.Context, userID, id string) (core.Purchase, error)
	ListPurchases(ctx context.Context, userID string, limit int, tag string) ([]core.Purchase, error)
	SumPriceBetween(ctx context.Context, userID string, start, end time.Time) (int64, error)
	Close() error
}

// EventPublisher publishes purchase change notifications. Satisfied by
// *amqp.Client.
type EventPublisher interface {
	PublishPurchaseEvent(ctx context.Context, ev *amqp.PurchaseEvent) error
	Close() error
}

// PurchaseService couples the store with best-effort event publishing.
// Event failures are logged and never fail the request; the store is
// the source of truth.
type PurchaseService struct {
	store  PurchaseStore
	events EventPublisher

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

func NewPurchaseService(store PurchaseStore, events EventPublisher) *PurchaseService {
	return &PurchaseService{
		store:  store,
		events: events,
		now:    time.Now,
	}
}

// Create validates nothing itself: inputs arrive pre-validated from the
// handler. It persists first, then publishes the created event.
func (s *PurchaseService) Create(ctx context.Context, userID string, in core.PurchaseInput) (core.Purchase, error) {
	p, err := s.store.CreatePurchase(ctx, userID, in)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("create purchase: %w", err)
	}
	s.publish(ctx, amqp.OpCreated, p.ID, userID)
	return p, nil
}

func (s *PurchaseService) Update(ctx context.Context, userID, id string, in core.PurchaseInput) error {
	if err := s.store.UpdatePurchase(ctx, userID, id, in); err != nil {
		return err
	}
	s.publish(ctx, amqp.OpUpdated, id, userID)
	return nil
}

func (s *PurchaseService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeletePurchase(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.OpDeleted, id, userID)
	return nil
}

func (s *PurchaseService) Get(ctx context.Context, userID, id string) (core.Purchase, error) {
	return s.store.GetPurchase(ctx, userID, id)
}

func (s *PurchaseService) List(ctx context.Context, userID string, limit int, tag string) ([]core.Purchase, error) {
	return s.store.ListPurchases(ctx, userID, limit, tag)
}

// Summarize resolves the month and year parameters (falling back to the
// current UTC instant) and issues the two range sums concurrently.
func (s *PurchaseService) Summarize(ctx context.Context, userID, monthParam, yearParam string) (core.Summary, error) {
	now := s.now().UTC()

	month := core.YearMonth{Year: now.Year(), Month: int(now.Month())}
	if ym, ok := core.ParseMonthParam(monthParam); ok {
		month = ym
	}
	year := now.Year()
	if y, ok := core.ParseYearParam(yearParam); ok {
		year = y
	}

	monthStart, monthEnd := core.MonthRange(month.Year, month.Month)
	yearStart, yearEnd := core.YearRange(year)

	var monthTotal, yearTotal int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		monthTotal, err = s.store.SumPriceBetween(gctx, userID, monthStart, monthEnd)
		return err
	})
	g.Go(func() error {
		var err error
		yearTotal, err = s.store.SumPriceBetween(gctx, userID, yearStart, yearEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Summary{}, fmt.Errorf("summarize: %w", err)
	}

	return core.Summary{
		MonthTotal: monthTotal,
		YearTotal:  yearTotal,
		Month:      month.String(),
		Year:       year,
	}, nil
}

func (s *PurchaseService) publish(ctx context.Context, op, id, userID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishPurchaseEvent(ctx, amqp.NewPurchaseEvent(op, id, userID)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish purchase event",
			"op", op,
			"id", id,
			"error", err)
	}
}

// Close closes the store and the event publisher.
func (s *PurchaseService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close purchase service: %v", errs)
	}

	return nil
}
