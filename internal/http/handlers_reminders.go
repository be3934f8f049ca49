package http

import (
	"net/http"

	"ledgerly/internal/auth"
	"ledgerly/internal/core"
	"ledgerly/internal/log"
	"ledgerly/internal/services"
	"ledgerly/internal/storage"
)

type createReminderRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

type updateReminderRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
	IsRead      *bool   `json:"isRead"`
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	list, err := s.reminders.ListForUser(r.Context(), identity.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReminderListJSON(list))
}

func (s *Server) handleUpcomingReminders(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	list, err := s.reminders.ListForUser(r.Context(), identity.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	upcoming := services.UpcomingReminders(list, s.now(), s.windowDays)
	writeJSON(w, http.StatusOK, toReminderListJSON(upcoming))
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var req createReminderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.reminders.Create(r.Context(), identity.ID, core.Reminder{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReminderJSON(created))
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var req updateReminderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	patch := storage.ReminderPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		IsRead:      req.IsRead,
	}
	if req.Status != nil {
		st := core.ReminderStatus(*req.Status)
		patch.Status = &st
	}

	id := r.PathValue("id")
	defer s.track(identity, log.OpUpdate, id)()
	if err := s.reminders.Update(r.Context(), identity.ID, id, patch); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleMarkReminderRead(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	id := r.PathValue("id")
	defer s.track(identity, log.OpUpdate, id)()
	if err := s.reminders.MarkRead(r.Context(), identity.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDismissReminder(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	id := r.PathValue("id")
	defer s.track(identity, log.OpUpdate, id)()
	if err := s.reminders.MarkDismissed(r.Context(), identity.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleTriggerReminder(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	id := r.PathValue("id")
	defer s.track(identity, log.OpUpdate, id)()
	if err := s.reminders.MarkTriggered(r.Context(), identity.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	id := r.PathValue("id")
	defer s.track(identity, log.OpDelete, id)()
	if err := s.reminders.Delete(r.Context(), identity.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
