package http

import (
	"log/slog"
	"net/http"
	"time"

	"hondana/internal/core"
)

type purchaseJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       int64    `json:"price"`
	Tags        []string `json:"tags"`
	PurchasedAt string   `json:"purchasedAt"`
	CreatedAt   string   `json:"createdAt"`
}

// listItemJSON is the trimmed projection returned by the list endpoint.
type listItemJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       int64  `json:"price"`
	PurchasedAt string `json:"purchasedAt"`
}

type summaryJSON struct {
	Month      string `json:"month"`
	MonthTotal int64  `json:"monthTotal"`
	Year       int    `json:"year"`
	YearTotal  int64  `json:"yearTotal"`
}

func toPurchaseJSON(p core.Purchase) purchaseJSON {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return purchaseJSON{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Tags:        tags,
		PurchasedAt: p.PurchasedAt.UTC().Format(time.RFC3339),
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		slog.WarnContext(r.Context(), "Unreadable request body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	in, err := core.ParsePurchaseInput(parser.RawPurchase(), time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := s.svc.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": p.ID})
}

func (s *Server) handleUpdatePurchase(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	id := r.PathValue("id")

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		slog.WarnContext(r.Context(), "Unreadable request body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	in, err := core.ParsePurchaseInput(parser.RawPurchase(), time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.svc.Update(r.Context(), userID, id, in); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleDeletePurchase(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	id := r.PathValue("id")

	if err := s.svc.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleGetPurchase(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	id := r.PathValue("id")

	p, err := s.svc.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]purchaseJSON{"purchase": toPurchaseJSON(p)})
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	limit, tag := parseListQuery(r.URL.Query())

	purchases, err := s.svc.List(r.Context(), userID, limit, tag)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]listItemJSON, 0, len(purchases))
	for _, p := range purchases {
		items = append(items, listItemJSON{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			PurchasedAt: p.PurchasedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string][]listItemJSON{"purchases": items})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	query := r.URL.Query()

	sum, err := s.svc.Summarize(r.Context(), userID, query.Get("month"), query.Get("year"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryJSON{
		Month:      sum.Month,
		MonthTotal: sum.MonthTotal,
		Year:       sum.Year,
		YearTotal:  sum.YearTotal,
	})
}
