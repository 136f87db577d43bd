package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/caseflow-backend/internal/domain"
)

type summaryService interface {
	ComputeSummary(ctx context.Context) (domain.TrashSummary, error)
}

// SummaryHandler serves the dashboard counters.
type SummaryHandler struct {
	svc summaryService
	log *slog.Logger
}

// NewSummaryHandler creates a SummaryHandler.
func NewSummaryHandler(svc summaryService, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{svc: svc, log: logger.With("handler", "summary")}
}

type summaryResponse struct {
	ActiveCases    int `json:"activeCases"`
	UnpaidInvoices int `json:"unpaidInvoices"`
	TrashedItems   int `json:"trashedItems"`
}

// Get handles GET /api/summary.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.ComputeSummary(r.Context())
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, summaryResponse{
		ActiveCases:    s.ActiveCases,
		UnpaidInvoices: s.UnpaidInvoices,
		TrashedItems:   s.TrashedItems,
	})
}
