package http

import (
	"net/http"

	"ledgerly/internal/auth"
	"ledgerly/internal/core"
	"ledgerly/internal/log"
	"ledgerly/internal/storage"
)

type createBillRequest struct {
	Title          string `json:"title"`
	Type           string `json:"type"`
	Amount         string `json:"amount"`
	DueDate        string `json:"dueDate"`
	Frequency      string `json:"frequency"`
	Category       string `json:"category"`
	Provider       string `json:"provider"`
	IsPaid         bool   `json:"isPaid"`
	IsTrial        bool   `json:"isTrial"`
	TrialEndDate   string `json:"trialEndDate"`
	AutoPayEnabled bool   `json:"autoPayEnabled"`
	Notes          string `json:"notes"`
}

type updateBillRequest struct {
	Title          *string `json:"title"`
	Type           *string `json:"type"`
	Amount         *string `json:"amount"`
	DueDate        *string `json:"dueDate"`
	Frequency      *string `json:"frequency"`
	Category       *string `json:"category"`
	Provider       *string `json:"provider"`
	IsPaid         *bool   `json:"isPaid"`
	IsTrial        *bool   `json:"isTrial"`
	TrialEndDate   *string `json:"trialEndDate"`
	AutoPayEnabled *bool   `json:"autoPayEnabled"`
	Notes          *string `json:"notes"`
}

type togglePaidRequest struct {
	Paid bool `json:"paid"`
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	list, err := s.bills.ListForUser(r.Context(), identity.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillListJSON(list, s.now(), s.windowDays))
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var req createBillRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.bills.Create(r.Context(), identity.ID, core.RecurringBill{
		Title:          req.Title,
		Type:           core.BillType(req.Type),
		Amount:         amount,
		DueDate:        req.DueDate,
		Frequency:      core.Frequency(req.Frequency),
		Category:       req.Category,
		Provider:       req.Provider,
		IsPaid:         req.IsPaid,
		IsTrial:        req.IsTrial,
		TrialEndDate:   req.TrialEndDate,
		AutoPayEnabled: req.AutoPayEnabled,
		Notes:          req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBillJSON(created, s.now(), s.windowDays))
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var req updateBillRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	patch := storage.BillPatch{
		Title:          req.Title,
		DueDate:        req.DueDate,
		Category:       req.Category,
		Provider:       req.Provider,
		IsPaid:         req.IsPaid,
		IsTrial:        req.IsTrial,
		TrialEndDate:   req.TrialEndDate,
		AutoPayEnabled: req.AutoPayEnabled,
		Notes:          req.Notes,
	}
	if req.Type != nil {
		t := core.BillType(*req.Type)
		patch.Type = &t
	}
	if req.Frequency != nil {
		f := core.Frequency(*req.Frequency)
		patch.Frequency = &f
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
	if err := s.bills.Update(r.Context(), identity.ID, id, patch); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleToggleBillPaid(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var req togglePaidRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id := r.PathValue("id")
	defer s.track(identity, log.OpUpdate, id)()
	if err := s.bills.TogglePaid(r.Context(), identity.ID, id, req.Paid); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	id := r.PathValue("id")
	defer s.track(identity, log.OpDelete, id)()
	if err := s.bills.Delete(r.Context(), identity.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
