package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"hondana/internal/core"
	"hondana/internal/storage"
)

// RequestBodyParser reads a request body once and exposes its fields
// regardless of whether the client sent JSON or a form encoding.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(r.Body)
	return p
}

// Parse attempts to decode the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}
	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if strings.Contains(p.contentType, "application/json") {
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = fmt.Errorf("decode json body: %w", err)
			return p.err
		}
		return nil
	}

	form, err := url.ParseQuery(string(p.body))
	if err != nil {
		p.err = fmt.Errorf("decode form body: %w", err)
		return p.err
	}
	p.formData = form
	return nil
}

// Get returns the string value of a field from whichever encoding was
// parsed. JSON numbers are rendered without a trailing ".0" so integer
// prices survive the float round trip.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		v, ok := p.jsonData[key]
		if !ok || v == nil {
			return ""
		}
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(t)
		case []any:
			parts := make([]string, 0, len(t))
			for _, e := range t {
				parts = append(parts, fmt.Sprint(e))
			}
			return strings.Join(parts, ",")
		default:
			return fmt.Sprint(t)
		}
	}
	if p.formData != nil {
		return p.formData.Get(key)
	}
	return ""
}

// RawPurchase assembles the validator input from the parsed body.
func (p *RequestBodyParser) RawPurchase() core.RawPurchase {
	return core.RawPurchase{
		Title:       p.Get("title"),
		Price:       p.Get("price"),
		Tags:        p.Get("tags"),
		PurchasedAt: p.Get("purchasedAt"),
	}
}

// parseListQuery extracts the limit and tag filters for GET /purchases.
// A missing or unparseable limit falls back to the default; clamping to
// the allowed range happens in the repository.
func parseListQuery(query url.Values) (limit int, tag string) {
	limit = storage.DefaultListLimit
	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	tag = strings.TrimSpace(query.Get("tag"))
	return limit, tag
}
