package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Subscription BillType = "subscription"
	Bill         BillType = "bill"
)

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Annually  Frequency = "annually"
)

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderTriggered ReminderStatus = "triggered"
	ReminderDismissed ReminderStatus = "dismissed"
)

type (
	TransactionType string
	BillType        string
	Frequency       string
	ReminderStatus  string

	// Transaction is a single income or expense record. Date fields are
	// YYYY-MM-DD calendar strings on this side of the store boundary.
	Transaction struct {
		ID        string
		UserID    string
		Title     string
		Type      TransactionType
		Amount    decimal.Decimal
		Date      string
		Category  string
		Company   string
		Frequency string
		Notes     string
		CreatedAt time.Time
	}

	// RecurringBill is a subscription or bill that repeats on a schedule.
	// Its paid/trial/due status is derived, never stored.
	RecurringBill struct {
		ID             string
		UserID         string
		Title          string
		Type           BillType
		Amount         decimal.Decimal
		DueDate        string
		Frequency      Frequency
		Category       string
		Provider       string
		IsPaid         bool
		IsTrial        bool
		TrialEndDate   string
		LastPaid       string
		AutoPayEnabled bool
		Notes          string
		CreatedAt      time.Time
	}

	// Reminder is a dated note surfaced while pending. DueDate may be empty.
	Reminder struct {
		ID          string
		UserID      string
		Title       string
		Description string
		DueDate     string
		Status      ReminderStatus
		IsRead      bool
		CreatedAt   time.Time
	}
)

// ValidateAmount checks that an amount is strictly positive and carries no
// sub-cent precision. At rest amounts are always rendered with exactly two
// fraction digits via AmountAtRest.
func ValidateAmount(a decimal.Decimal) error {
	if !a.IsPositive() {
		return ErrInvalidAmount
	}
	if !a.Equal(a.Round(2)) {
		return ErrInvalidAmount
	}
	return nil
}

// AmountAtRest renders an amount in its persisted form: a decimal string
// with exactly two fraction digits.
func AmountAtRest(a decimal.Decimal) string {
	return a.StringFixed(2)
}

// ParseAmount parses user-supplied amount input into a decimal, enforcing
// the positive two-fraction-digit invariant.
func ParseAmount(s string) (decimal.Decimal, error) {
	a, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := ValidateAmount(a); err != nil {
		return decimal.Zero, err
	}
	return a, nil
}

func validateTitle(title string) error {
	if len(strings.TrimSpace(title)) == 0 {
		return ErrEmptyTitle
	}
	if len(title) > 200 {
		return ErrTitleTooLong
	}
	return nil
}

func validateCalendarDate(date string) error {
	if _, err := ParseCalendarDate(date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := validateTitle(t.Title); err != nil {
		return err
	}
	switch t.Type {
	case Income, Expense:
	default:
		return ErrInvalidType
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if t.Date == "" {
		return ErrMissingDate
	}
	return validateCalendarDate(t.Date)
}

func (b RecurringBill) Validate() error {
	if err := validateTitle(b.Title); err != nil {
		return err
	}
	switch b.Type {
	case Subscription, Bill:
	default:
		return ErrInvalidType
	}
	if err := ValidateAmount(b.Amount); err != nil {
		return err
	}
	if b.DueDate == "" {
		return ErrMissingDate
	}
	if err := validateCalendarDate(b.DueDate); err != nil {
		return err
	}
	switch b.Frequency {
	case Daily, Weekly, Monthly, Quarterly, Annually:
	default:
		return ErrInvalidFrequency
	}
	if b.TrialEndDate != "" {
		if err := validateCalendarDate(b.TrialEndDate); err != nil {
			return err
		}
	}
	if b.LastPaid != "" {
		if err := validateCalendarDate(b.LastPaid); err != nil {
			return err
		}
	}
	return nil
}

func (r Reminder) Validate() error {
	if err := validateTitle(r.Title); err != nil {
		return err
	}
	if r.DueDate != "" {
		if err := validateCalendarDate(r.DueDate); err != nil {
			return err
		}
	}
	switch r.Status {
	case "", ReminderPending, ReminderTriggered, ReminderDismissed:
	default:
		return ErrInvalidStatus
	}
	return nil
}
