package core

import (
	"errors"
	"time"
)

// Field constraints for purchase records.
const (
	TitleMinLength = 1
	TitleMaxLength = 200
	PriceMin       = 0
	PriceMax       = 9_999_999
	MaxTags        = 20
	TagMaxLength   = 50
)

// Purchase is one purchased-book record. UserID is set only from the
// verified token, never from client-supplied fields.
type Purchase struct {
	ID          string
	UserID      string
	Title       string
	Price       int64
	Tags        []string
	PurchasedAt time.Time
	CreatedAt   time.Time
}

// PurchaseInput holds validated fields ready for persistence.
// Produced only by ParsePurchaseInput.
type PurchaseInput struct {
	Title       string
	Price       int64
	Tags        []string
	PurchasedAt time.Time
}

var (
	// ErrUnauthorized covers every identity failure: missing, malformed
	// or rejected tokens and provider call errors alike. No further
	// detail is surfaced.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound covers both "no such purchase" and "purchase owned by
	// another user"; callers cannot tell the two apart.
	ErrNotFound = errors.New("purchase not found")
)

// ValidationError reports a single rejected input field. The reason is
// a human-readable string shown to the caller as-is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// HasTag reports whether the purchase carries the given tag
// (exact match, case-sensitive).
func (p Purchase) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
