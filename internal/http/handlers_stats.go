package http

import (
	"net/http"

	"menage/internal/core"
	"menage/internal/log"
	"menage/internal/storage"
)

// handleListCategories returns the seeded categories in display order.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.repo.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// handleStats builds the month summary. Every call recomputes from storage;
// aggregates are never cached.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	categories, err := s.repo.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	expenses, err := s.repo.ListExpenses(r.Context(), storage.ExpenseFilter{Year: year, Month: month})
	if err != nil {
		writeError(w, r, err)
		return
	}
	budgets, err := s.repo.ListBudgets(r.Context(), month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary := core.BuildMonthSummary(categories, expenses, budgets)
	if summary.RecentExpenses == nil {
		summary.RecentExpenses = []core.Expense{}
	}

	log.FromContext(r.Context()).Debug("Month summary built",
		log.FieldMonth, month,
		log.FieldYear, year,
		"total_spent_cents", summary.TotalSpent.Cents,
		"total_budget_cents", summary.TotalBudget.Cents)
	writeJSON(w, http.StatusOK, summary)
}
