package http

import (
	"time"

	"ledgerly/internal/auth"
	"ledgerly/internal/core"
	"ledgerly/internal/services"
)

// Wire representations. Amounts travel as decimal strings and dates as
// YYYY-MM-DD calendar strings, matching the persisted forms.

type identityJSON struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

func toIdentityJSON(i auth.Identity) identityJSON {
	return identityJSON{ID: i.ID, Email: i.Email, DisplayName: i.DisplayName}
}

type transactionJSON struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Amount    string    `json:"amount"`
	Date      string    `json:"date"`
	Category  string    `json:"category,omitempty"`
	Company   string    `json:"company,omitempty"`
	Frequency string    `json:"frequency,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:        t.ID,
		Title:     t.Title,
		Type:      string(t.Type),
		Amount:    core.AmountAtRest(t.Amount),
		Date:      t.Date,
		Category:  t.Category,
		Company:   t.Company,
		Frequency: t.Frequency,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
	}
}

func toTransactionListJSON(ts []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

type billJSON struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Type           string    `json:"type"`
	Amount         string    `json:"amount"`
	DueDate        string    `json:"dueDate"`
	Frequency      string    `json:"frequency"`
	Category       string    `json:"category,omitempty"`
	Provider       string    `json:"provider,omitempty"`
	IsPaid         bool      `json:"isPaid"`
	IsTrial        bool      `json:"isTrial"`
	TrialEndDate   string    `json:"trialEndDate,omitempty"`
	LastPaid       string    `json:"lastPaid,omitempty"`
	AutoPayEnabled bool      `json:"autoPayEnabled"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`

	// Derived, never stored.
	Status    string `json:"status"`
	DueBucket string `json:"dueBucket"`
}

func toBillJSON(b core.RecurringBill, today time.Time, windowDays int) billJSON {
	return billJSON{
		ID:             b.ID,
		Title:          b.Title,
		Type:           string(b.Type),
		Amount:         core.AmountAtRest(b.Amount),
		DueDate:        b.DueDate,
		Frequency:      string(b.Frequency),
		Category:       b.Category,
		Provider:       b.Provider,
		IsPaid:         b.IsPaid,
		IsTrial:        b.IsTrial,
		TrialEndDate:   b.TrialEndDate,
		LastPaid:       b.LastPaid,
		AutoPayEnabled: b.AutoPayEnabled,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
		Status:         string(services.ClassifyBillStatus(b)),
		DueBucket:      string(services.DateBucket(b.DueDate, today, windowDays)),
	}
}

func toBillListJSON(bs []core.RecurringBill, today time.Time, windowDays int) []billJSON {
	out := make([]billJSON, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBillJSON(b, today, windowDays))
	}
	return out
}

type reminderJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     string    `json:"dueDate,omitempty"`
	Status      string    `json:"status"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toReminderJSON(r core.Reminder) reminderJSON {
	return reminderJSON{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Status:      string(r.Status),
		IsRead:      r.IsRead,
		CreatedAt:   r.CreatedAt,
	}
}

func toReminderListJSON(rs []core.Reminder) []reminderJSON {
	out := make([]reminderJSON, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReminderJSON(r))
	}
	return out
}

type summaryJSON struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
}

func toSummaryJSON(s services.Summary) summaryJSON {
	return summaryJSON{
		Income:   s.Income.StringFixed(2),
		Expenses: s.Expenses.StringFixed(2),
	}
}
