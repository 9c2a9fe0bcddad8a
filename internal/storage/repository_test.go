package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"hondana/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreate(t *testing.T, repo *SQLiteRepository, userID string, in core.PurchaseInput) core.Purchase {
	t.Helper()
	p, err := repo.CreatePurchase(context.Background(), userID, in)
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	return p
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := core.PurchaseInput{
		Title:       "Clean Code",
		Price:       3200,
		Tags:        []string{"eng", "reading"},
		PurchasedAt: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	}
	created := mustCreate(t, repo, "user-1", in)
	if created.ID == "" {
		t.Fatalf("expected server-generated id")
	}

	got, err := repo.GetPurchase(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("get purchase: %v", err)
	}
	if got.Title != "Clean Code" || got.Price != 3200 {
		t.Fatalf("unexpected fields: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "eng" || got.Tags[1] != "reading" {
		t.Fatalf("unexpected tags: %v", got.Tags)
	}
	if !got.PurchasedAt.Equal(in.PurchasedAt) {
		t.Fatalf("purchasedAt changed: %v", got.PurchasedAt)
	}
	if got.UserID != "user-1" {
		t.Fatalf("unexpected owner: %s", got.UserID)
	}
}

func TestOwnershipScoping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := mustCreate(t, repo, "owner", core.PurchaseInput{
		Title: "t", Price: 1, Tags: []string{}, PurchasedAt: time.Now().UTC(),
	})

	// Another user's id must behave identically to a nonexistent id.
	if _, err := repo.GetPurchase(ctx, "intruder", p.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound for foreign row, got %v", err)
	}
	if _, err := repo.GetPurchase(ctx, "owner", "no-such-id"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound for missing row, got %v", err)
	}

	upd := core.PurchaseInput{Title: "u", Price: 2, Tags: []string{}, PurchasedAt: time.Now().UTC()}
	if err := repo.UpdatePurchase(ctx, "intruder", p.ID, upd); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound for foreign row, got %v", err)
	}
	if err := repo.DeletePurchase(ctx, "intruder", p.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound for foreign row, got %v", err)
	}

	// The owner still sees the untouched row.
	got, err := repo.GetPurchase(ctx, "owner", p.ID)
	if err != nil {
		t.Fatalf("owner lost the row: %v", err)
	}
	if got.Title != "t" {
		t.Fatalf("foreign update leaked through: %+v", got)
	}
}

func TestUpdateFullReplace(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := mustCreate(t, repo, "user-1", core.PurchaseInput{
		Title: "old", Price: 10, Tags: []string{"a", "b"},
		PurchasedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	err := repo.UpdatePurchase(ctx, "user-1", p.ID, core.PurchaseInput{
		Title: "new", Price: 20, Tags: []string{},
		PurchasedAt: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetPurchase(ctx, "user-1", p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "new" || got.Price != 20 || len(got.Tags) != 0 {
		t.Fatalf("update was not a full replace: %+v", got)
	}
	if !got.PurchasedAt.Equal(time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("purchasedAt not replaced: %v", got.PurchasedAt)
	}
}

func TestDeleteThenGone(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := mustCreate(t, repo, "user-1", core.PurchaseInput{
		Title: "x", Price: 1, Tags: []string{}, PurchasedAt: time.Now().UTC(),
	})
	if err := repo.DeletePurchase(ctx, "user-1", p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetPurchase(ctx, "user-1", p.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeletePurchase(ctx, "user-1", p.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("double delete should be ErrNotFound, got %v", err)
	}
}

func TestListOrderingAndTieBreak(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	older := mustCreate(t, repo, "user-1", core.PurchaseInput{
		Title: "same-day first", Price: 1, Tags: []string{}, PurchasedAt: day,
	})
	// createdAt must differ for the tiebreak to be observable.
	time.Sleep(5 * time.Millisecond)
	newer := mustCreate(t, repo, "user-1", core.PurchaseInput{
		Title: "same-day second", Price: 2, Tags: []string{}, PurchasedAt: day,
	})
	latest := mustCreate(t, repo, "user-1", core.PurchaseInput{
		Title: "later day", Price: 3, Tags: []string{},
		PurchasedAt: day.AddDate(0, 0, 1),
	})

	got, err := repo.ListPurchases(ctx, "user-1", 10, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0].ID != latest.ID {
		t.Fatalf("newest purchase date should come first, got %s", got[0].Title)
	}
	if got[1].ID != newer.ID || got[2].ID != older.ID {
		t.Fatalf("equal purchase dates must order by created_at desc: %s, %s",
			got[1].Title, got[2].Title)
	}
}

func TestListLimitClamping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 120; i++ {
		mustCreate(t, repo, "user-1", core.PurchaseInput{
			Title: "bulk", Price: 1, Tags: []string{},
			PurchasedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		})
	}

	got, err := repo.ListPurchases(ctx, "user-1", 150, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != MaxListLimit {
		t.Fatalf("limit 150 should clamp to %d, got %d", MaxListLimit, len(got))
	}

	got, err = repo.ListPurchases(ctx, "user-1", 0, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != DefaultListLimit {
		t.Fatalf("limit 0 should default to %d, got %d", DefaultListLimit, len(got))
	}

	got, err = repo.ListPurchases(ctx, "user-1", -3, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != DefaultListLimit {
		t.Fatalf("negative limit should default to %d, got %d", DefaultListLimit, len(got))
	}
}

func TestListTagFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tagged := mustCreate(t, repo, "user-1", core.PurchaseInput{
		Title: "tagged", Price: 1, Tags: []string{"eng", "reading"},
		PurchasedAt: time.Now().UTC(),
	})
	mustCreate(t, repo, "user-1", core.PurchaseInput{
		Title: "untagged", Price: 2, Tags: []string{},
		PurchasedAt: time.Now().UTC(),
	})
	mustCreate(t, repo, "user-1", core.PurchaseInput{
		Title: "case differs", Price: 3, Tags: []string{"Eng"},
		PurchasedAt: time.Now().UTC(),
	})

	got, err := repo.ListPurchases(ctx, "user-1", 10, "eng")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != tagged.ID {
		t.Fatalf("tag filter must be exact and case-sensitive, got %d rows", len(got))
	}
}

func TestSumPriceBetween(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Empty result set sums to zero, not an error.
	start, end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	total, err := repo.SumPriceBetween(ctx, "user-1", start, end)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 0 {
		t.Fatalf("empty range should sum to 0, got %d", total)
	}

	mustCreate(t, repo, "user-1", core.PurchaseInput{
		Title: "in range", Price: 100, Tags: []string{},
		PurchasedAt: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
	})
	mustCreate(t, repo, "user-1", core.PurchaseInput{
		Title: "at start boundary", Price: 10, Tags: []string{},
		PurchasedAt: start,
	})
	mustCreate(t, repo, "user-1", core.PurchaseInput{
		Title: "at end boundary excluded", Price: 1000, Tags: []string{},
		PurchasedAt: end,
	})
	mustCreate(t, repo, "other-user", core.PurchaseInput{
		Title: "other owner excluded", Price: 7, Tags: []string{},
		PurchasedAt: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
	})

	total, err = repo.SumPriceBetween(ctx, "user-1", start, end)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 110 {
		t.Fatalf("half-open interval sum expected 110, got %d", total)
	}
}
