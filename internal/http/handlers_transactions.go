package http

import (
	"net/http"

	"ledgerly/internal/auth"
	"ledgerly/internal/core"
	"ledgerly/internal/log"
	"ledgerly/internal/storage"
)

type createTransactionRequest struct {
	Title     string `json:"title"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Category  string `json:"category"`
	Company   string `json:"company"`
	Frequency string `json:"frequency"`
	Notes     string `json:"notes"`
}

type updateTransactionRequest struct {
	Title    *string `json:"title"`
	Type     *string `json:"type"`
	Amount   *string `json:"amount"`
	Date     *string `json:"date"`
	Category *string `json:"category"`
	Company  *string `json:"company"`
	Notes    *string `json:"notes"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	filter := core.TransactionType(r.URL.Query().Get("type"))
	switch filter {
	case "", core.Income, core.Expense:
	default:
		writeError(w, r, core.ErrInvalidType)
		return
	}

	list, err := s.transactions.ListForUserByType(r.Context(), identity.ID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionListJSON(list))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var req createTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.transactions.Create(r.Context(), identity.ID, core.Transaction{
		Title:     req.Title,
		Type:      core.TransactionType(req.Type),
		Amount:    amount,
		Date:      req.Date,
		Category:  req.Category,
		Company:   req.Company,
		Frequency: req.Frequency,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var req updateTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	patch := storage.TransactionPatch{
		Title:    req.Title,
		Date:     req.Date,
		Category: req.Category,
		Company:  req.Company,
		Notes:    req.Notes,
	}
	if req.Type != nil {
		t := core.TransactionType(*req.Type)
		patch.Type = &t
	}
	if req.Amount != nil {
		amount, err := core.ParseAmount(*req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.Amount = &amount
	}

	id := r.PathValue("id")
	defer s.track(identity, log.OpUpdate, id)()
	if err := s.transactions.Update(r.Context(), identity.ID, id, patch); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	id := r.PathValue("id")
	defer s.track(identity, log.OpDelete, id)()
	if err := s.transactions.Delete(r.Context(), identity.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
