package http

import (
	"encoding/json"
	"net/http"

	"menage/internal/core"
	"menage/internal/log"
	"menage/internal/storage"
)

type wishlistRequest struct {
	Name      *string         `json:"name"`
	Price     json.RawMessage `json:"price"`
	URL       *string         `json:"url"`
	Priority  *int            `json:"priority"`
	Purchased *bool           `json:"purchased"`
}

// price distinguishes three cases: absent (leave as is), JSON null (clear)
// and a number (set).
func (wr wishlistRequest) price() (value *core.Money, clear bool, err error) {
	if wr.Price == nil {
		return nil, false, nil
	}
	if string(wr.Price) == "null" {
		return nil, true, nil
	}
	var m core.Money
	if err := json.Unmarshal(wr.Price, &m); err != nil {
		return nil, false, errInvalidBody
	}
	return &m, false, nil
}

// handleListWishlist returns the shared wishlist: unpurchased first, then by
// priority, then newest.
func (s *Server) handleListWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.ListWishlist(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []core.WishlistItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req wishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	item := core.WishlistItem{
		Priority: 3,
		UserID:   userID(r.Context()),
	}
	if req.Name != nil {
		item.Name = sanitizeInput(*req.Name)
	}
	price, _, err := req.price()
	if err != nil {
		writeError(w, r, err)
		return
	}
	item.Price = price
	if req.URL != nil {
		item.URL = sanitizeInput(*req.URL)
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
	}
	if err := item.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.repo.CreateWishlistItem(r.Context(), &item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).Info("Wishlist item created",
		log.FieldEntityID, created.ID, "priority", created.Priority)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req wishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	patch := storage.WishlistPatch{Purchased: req.Purchased}
	if req.Name != nil {
		name := sanitizeInput(*req.Name)
		if name == "" {
			writeError(w, r, core.ErrMissingName)
			return
		}
		patch.Name = &name
	}
	price, clear, err := req.price()
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch.Price = price
	patch.ClearPrice = clear
	if req.URL != nil {
		url := sanitizeInput(*req.URL)
		patch.URL = &url
	}
	if req.Priority != nil {
		if *req.Priority < 1 || *req.Priority > 5 {
			writeError(w, r, core.ErrInvalidPriority)
			return
		}
		patch.Priority = req.Priority
	}

	updated, err := s.repo.UpdateWishlistItem(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteWishlistItem(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteWishlistItem(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
