// Package core holds the purchase domain model and its validation rules.
//
// All parse functions are pure and synchronous: raw form or query input
// goes in, a well-typed value or a *ValidationError comes out. Nothing
// in this package touches the store or knows about user identity.
package core

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// RawPurchase carries the untyped form/query fields of a create or
// update request before validation.
type RawPurchase struct {
	Title       string
	Price       string
	Tags        string
	PurchasedAt string
}

const (
	titleReason = "Title must be 1-200 characters."
	priceReason = "Price must be an integer between 0 and 9,999,999."
	dateReason  = "Purchased date is invalid."
	tagReason   = "Each tag must be 50 characters or fewer."
)

// Accepted purchasedAt layouts, tried in order. Date-only input is
// interpreted as UTC midnight.
var purchasedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTitle trims surrounding whitespace and enforces the 1-200
// character bound.
func ParseTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(title)
	if n < TitleMinLength || n > TitleMaxLength {
		return "", newValidationError("title", titleReason)
	}
	return title, nil
}

// ParsePrice coerces raw input to an integer price in [0, 9,999,999].
// A missing or empty value is rejected rather than coerced to zero;
// fractional values are rejected as well.
func ParsePrice(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, newValidationError("price", priceReason)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, newValidationError("price", priceReason)
	}
	if f != math.Trunc(f) {
		return 0, newValidationError("price", priceReason)
	}
	price := int64(f)
	if price < PriceMin || price > PriceMax {
		return 0, newValidationError("price", priceReason)
	}
	return price, nil
}

// ParsePurchasedAt returns now for a missing value and rejects a
// present-but-unparseable one. Parsed values are used as given, at
// whatever granularity the input carries.
func ParsePurchasedAt(raw string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return now, nil
	}
	for _, layout := range purchasedAtLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, newValidationError("purchasedAt", dateReason)
}

// ParseTags splits raw input on `,` or `、`, trims each piece, drops
// empties, removes duplicates preserving first occurrence and keeps at
// most MaxTags unique tags. The truncation happens before the per-tag
// length check; a surviving tag over TagMaxLength characters rejects
// the whole operation. Missing input yields an empty list, never an
// error.
func ParseTags(raw string) ([]string, error) {
	pieces := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '、'
	})

	tags := make([]string, 0, len(pieces))
	seen := make(map[string]struct{}, len(pieces))
	for _, piece := range pieces {
		tag := strings.TrimSpace(piece)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == MaxTags {
			break
		}
	}

	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > TagMaxLength {
			return nil, newValidationError("tags", tagReason)
		}
	}
	return tags, nil
}

// ParsePurchaseInput is the composite entry point used by both create
// and update: every field is re-validated on every call, partial
// updates are not supported.
func ParsePurchaseInput(raw RawPurchase, now time.Time) (PurchaseInput, error) {
	title, err := ParseTitle(raw.Title)
	if err != nil {
		return PurchaseInput{}, err
	}
	price, err := ParsePrice(raw.Price)
	if err != nil {
		return PurchaseInput{}, err
	}
	purchasedAt, err := ParsePurchasedAt(raw.PurchasedAt, now)
	if err != nil {
		return PurchaseInput{}, err
	}
	tags, err := ParseTags(raw.Tags)
	if err != nil {
		return PurchaseInput{}, err
	}
	return PurchaseInput{
		Title:       title,
		Price:       price,
		Tags:        tags,
		PurchasedAt: purchasedAt,
	}, nil
}
