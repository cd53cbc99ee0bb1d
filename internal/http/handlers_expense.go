package http

import (
	"net/http"
	"strings"
	"time"

	"menage/internal/core"
	"menage/internal/log"
	"menage/internal/storage"
)

type expenseRequest struct {
	Amount      *core.Money `json:"amount"`
	Description *string     `json:"description"`
	Date        *string     `json:"date"`
	Shared      *bool       `json:"shared"`
	CategoryID  *string     `json:"categoryId"`
}

// handleListExpenses returns the month's expenses, optionally restricted to
// one category, newest first.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	expenses, err := s.repo.ListExpenses(r.Context(), storage.ExpenseFilter{
		Year:       year,
		Month:      month,
		CategoryID: strings.TrimSpace(r.URL.Query().Get("categoryId")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	e := core.Expense{
		Description: "Expense",
		Date:        time.Now().UTC(),
		UserID:      userID(r.Context()),
	}
	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	if req.Description != nil {
		if d := sanitizeInput(*req.Description); d != "" {
			e.Description = d
		}
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		e.Date = date
	}
	if req.Shared != nil {
		e.Shared = *req.Shared
	}
	if req.CategoryID != nil {
		e.CategoryID = *req.CategoryID
	}
	if err := e.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.expenses.Create(r.Context(), &e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).Info("Expense created",
		log.FieldEntityID, created.ID, "amount_cents", created.Amount.Cents)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	patch := storage.ExpensePatch{
		Amount:     req.Amount,
		Shared:     req.Shared,
		CategoryID: req.CategoryID,
	}
	if req.Amount != nil && req.Amount.Cents <= 0 {
		writeError(w, r, core.ErrInvalidAmount)
		return
	}
	if req.Description != nil {
		d := sanitizeInput(*req.Description)
		if d == "" {
			writeError(w, r, core.ErrMissingDescription)
			return
		}
		patch.Description = &d
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.Date = &date
	}

	updated, err := s.expenses.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
