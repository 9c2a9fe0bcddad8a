package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"hondana/internal/core"

	_ "modernc.org/sqlite"
)

// List limits per the purchase listing contract.
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// SQLiteRepository persists purchase records. Every operation is scoped
// by the owning user id; a row owned by another user is indistinguishable
// from a missing one.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreatePurchase inserts a new row with a server-generated id and
// createdAt. Inputs are expected to be pre-validated.
func (r *SQLiteRepository) CreatePurchase(ctx context.Context, userID string, in core.PurchaseInput) (core.Purchase, error) {
	p := core.Purchase{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Price:       in.Price,
		Tags:        in.Tags,
		PurchasedAt: in.PurchasedAt.UTC(),
		CreatedAt:   time.Now().UTC(),
	}

	tagsJSON, err := encodeTags(p.Tags)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("encode tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO purchases (id, user_id, title, price, tags, purchased_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Title, p.Price, tagsJSON,
		p.PurchasedAt.UnixMilli(), p.CreatedAt.UnixMilli())
	if err != nil {
		return core.Purchase{}, fmt.Errorf("insert purchase: %w", err)
	}

	slog.InfoContext(ctx, "Purchase saved",
		"id", p.ID,
		"title", p.Title,
		"price", p.Price,
		"tag_count", len(p.Tags))

	return p, nil
}

// UpdatePurchase replaces every mutable field of the row matching
// (id, userID). A zero affected-row count is the only not-found signal;
// there is no separate existence check.
func (r *SQLiteRepository) UpdatePurchase(ctx context.Context, userID, id string, in core.PurchaseInput) error {
	tagsJSON, err := encodeTags(in.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE purchases SET title = ?, price = ?, tags = ?, purchased_at = ?
		 WHERE id = ? AND user_id = ?`,
		in.Title, in.Price, tagsJSON, in.PurchasedAt.UTC().UnixMilli(), id, userID)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeletePurchase removes the row matching (id, userID) under the same
// zero-match rule as UpdatePurchase.
func (r *SQLiteRepository) DeletePurchase(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM purchases WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// GetPurchase returns the row matching (id, userID).
func (r *SQLiteRepository) GetPurchase(ctx context.Context, userID, id string) (core.Purchase, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, price, tags, purchased_at, created_at
		 FROM purchases WHERE id = ? AND user_id = ?`, id, userID)

	p, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Purchase{}, core.ErrNotFound
		}
		return core.Purchase{}, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// ListPurchases returns the user's rows ordered by purchased_at
// descending with created_at descending as the tiebreaker. A
// non-positive limit falls back to DefaultListLimit; anything above
// MaxListLimit is clamped. An optional tag restricts to rows whose tag
// set contains the exact value.
func (r *SQLiteRepository) ListPurchases(ctx context.Context, userID string, limit int, tag string) ([]core.Purchase, error) {
	limit = clampLimit(limit)

	query := `SELECT id, user_id, title, price, tags, purchased_at, created_at
		 FROM purchases WHERE user_id = ?`
	args := []any{userID}
	if tag != "" {
		query += ` AND EXISTS (SELECT 1 FROM json_each(purchases.tags) WHERE json_each.value = ?)`
		args = append(args, tag)
	}
	query += ` ORDER BY purchased_at DESC, created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]core.Purchase, 0, limit)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return purchases, nil
}

// SumPriceBetween sums price over the user's rows with purchased_at in
// the half-open interval [start, end). An empty result set sums to 0.
func (r *SQLiteRepository) SumPriceBetween(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(price), 0) FROM purchases
		 WHERE user_id = ? AND purchased_at >= ? AND purchased_at < ?`,
		userID, start.UTC().UnixMilli(), end.UTC().UnixMilli()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum prices: %w", err)
	}
	return total, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPurchase(row rowScanner) (core.Purchase, error) {
	var (
		p         core.Purchase
		tagsJSON  string
		purchased int64
		created   int64
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Price, &tagsJSON, &purchased, &created); err != nil {
		return core.Purchase{}, err
	}
	tags, err := decodeTags(tagsJSON)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("decode tags: %w", err)
	}
	p.Tags = tags
	p.PurchasedAt = time.UnixMilli(purchased).UTC()
	p.CreatedAt = time.UnixMilli(created).UTC()
	return p, nil
}

// encodeTags stores the tag list as a JSON array so json_each can
// filter on membership. A nil list encodes as [].
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeTags(tagsJSON string) ([]string, error) {
	if tagsJSON == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
