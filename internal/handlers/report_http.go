package handlers

import (
	"net/http"

	"propcare/internal/middleware"
	"propcare/internal/service"
	"propcare/internal/utils"
)

type ReportsHTTP struct {
	tickets *service.TicketService
}

func NewReportsHTTP(t *service.TicketService) *ReportsHTTP { return &ReportsHTTP{tickets: t} }

// GET /api/reports/summary
// Counts only the tickets the caller could list.
func (h *ReportsHTTP) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := h.tickets.Summary(r.Context(), middleware.ActorFrom(r.Context()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.OK(w, http.StatusOK, sum)
	}
}
