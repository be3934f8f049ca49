package http

import (
	"net/http"

	"ledgerly/internal/auth"
	"ledgerly/internal/core"
)

type dashboardResponse struct {
	Identity     identityJSON      `json:"identity"`
	Summary      summaryJSON       `json:"summary"`
	Transactions []transactionJSON `json:"transactions"`
	Bills        []billJSON        `json:"bills"`
	Reminders    []reminderJSON    `json:"reminders"`
	Upcoming     []reminderJSON    `json:"upcomingReminders"`
	Filter       string            `json:"transactionFilter,omitempty"`
}

// handleDashboard refreshes the caller's session and returns the aggregate
// view in one response. An optional type query switches the transaction
// filter before refreshing.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	sess := s.sessions.Get(identity)

	if r.URL.Query().Has("type") {
		filter := core.TransactionType(r.URL.Query().Get("type"))
		switch filter {
		case "", core.Income, core.Expense:
		default:
			writeError(w, r, core.ErrInvalidType)
			return
		}
		if err := sess.SetFilterAndRefresh(r.Context(), filter); err != nil {
			writeError(w, r, err)
			return
		}
		if err := sess.RefreshBills(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
		if err := sess.RefreshReminders(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
	} else if err := sess.RefreshAll(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Identity:     toIdentityJSON(identity),
		Summary:      toSummaryJSON(sess.Summary()),
		Transactions: toTransactionListJSON(sess.Transactions()),
		Bills:        toBillListJSON(sess.Bills(), s.now(), s.windowDays),
		Reminders:    toReminderListJSON(sess.Reminders()),
		Upcoming:     toReminderListJSON(sess.Upcoming()),
		Filter:       string(sess.Filter()),
	})
}
