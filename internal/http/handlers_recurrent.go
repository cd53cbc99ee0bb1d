package http

import (
	"net/http"
	"time"

	"menage/internal/core"
	"menage/internal/log"
	"menage/internal/storage"
)

type recurringRequest struct {
	Amount      *core.Money `json:"amount"`
	Description *string     `json:"description"`
	Frequency   *string     `json:"frequency"`
	Active      *bool       `json:"active"`
	Shared      *bool       `json:"shared"`
	NextDate    *string     `json:"nextDate"`
	CategoryID  *string     `json:"categoryId"`
}

type recurringListResponse struct {
	Items        []core.RecurringExpense `json:"items"`
	MonthlyTotal core.Money              `json:"monthlyTotal"`
}

// handleListRecurring returns every recurring charge plus the
// monthly-equivalent total of the active ones.
func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.ListRecurring(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []core.RecurringExpense{}
	}
	writeJSON(w, http.StatusOK, recurringListResponse{
		Items:        items,
		MonthlyTotal: core.MonthlyRecurringTotal(items),
	})
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	re := core.RecurringExpense{
		Active:   true,
		NextDate: time.Now().UTC(),
		UserID:   userID(r.Context()),
	}
	if req.Amount != nil {
		re.Amount = *req.Amount
	}
	if req.Description != nil {
		re.Description = sanitizeInput(*req.Description)
	}
	if req.Frequency != nil {
		re.Frequency = core.Frequency(*req.Frequency)
	}
	if req.Active != nil {
		re.Active = *req.Active
	}
	if req.Shared != nil {
		re.Shared = *req.Shared
	}
	if req.NextDate != nil {
		next, err := parseDate(*req.NextDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		re.NextDate = next
	}
	if req.CategoryID != nil {
		re.CategoryID = *req.CategoryID
	}
	if err := re.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.repo.CreateRecurring(r.Context(), &re)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).Info("Recurring expense created",
		log.FieldEntityID, created.ID, "frequency", created.Frequency)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	patch := storage.RecurringPatch{
		Amount:     req.Amount,
		Active:     req.Active,
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
	if req.Frequency != nil {
		f := core.Frequency(*req.Frequency)
		if !f.Valid() {
			writeError(w, r, core.ErrInvalidFrequency)
			return
		}
		patch.Frequency = &f
	}
	if req.NextDate != nil {
		next, err := parseDate(*req.NextDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.NextDate = &next
	}

	updated, err := s.repo.UpdateRecurring(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteRecurring(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
