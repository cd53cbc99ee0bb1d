package http

import (
	"net/http"

	"menage/internal/core"
	"menage/internal/log"
)

type budgetRequest struct {
	Amount     *core.Money `json:"amount"`
	Month      int         `json:"month"`
	Year       int         `json:"year"`
	CategoryID string      `json:"categoryId"`
}

// handleListBudgets returns the month's budgets across both users, in
// category display order.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	budgets, err := s.repo.ListBudgets(r.Context(), month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

// handleUpsertBudget creates or overwrites the acting user's budget for the
// (category, month, year) tuple. Zero is a legitimate ceiling; a missing
// amount is not.
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Amount == nil {
		writeError(w, r, core.ErrMissingAmount)
		return
	}

	b := core.Budget{
		Amount:     *req.Amount,
		Month:      req.Month,
		Year:       req.Year,
		CategoryID: req.CategoryID,
		UserID:     userID(r.Context()),
	}
	if err := b.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := s.repo.UpsertBudget(r.Context(), &b)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).Info("Budget saved",
		log.FieldEntityID, saved.ID,
		log.FieldMonth, saved.Month,
		log.FieldYear, saved.Year)
	writeJSON(w, http.StatusOK, saved)
}
