// Package export mirrors purchase records into an external spreadsheet.
package export

import (
	"context"

	"hondana/internal/core"
)

// RowAppender appends one purchase as a spreadsheet row and returns a
// reference to where it landed.
type RowAppender interface {
	AppendPurchase(ctx context.Context, p core.Purchase) (rowRef string, err error)
}

// PurchaseGetter is the slice of the repository the worker needs.
type PurchaseGetter interface {
	GetPurchase(ctx context.Context, userID, id string) (core.Purchase, error)
}
