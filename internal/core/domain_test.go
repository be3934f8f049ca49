package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		ok     bool
	}{
		{"positive two digits", "1000.00", true},
		{"positive integer", "10", true},
		{"single fraction digit", "9.5", true},
		{"zero", "0", false},
		{"negative", "-1.00", false},
		{"sub-cent precision", "1.005", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(amt(tt.amount))
			if tt.ok && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAmountAtRest(t *testing.T) {
	if got := AmountAtRest(amt("1000")); got != "1000.00" {
		t.Fatalf("AmountAtRest(1000) = %q, want 1000.00", got)
	}
	if got := AmountAtRest(amt("9.5")); got != "9.50" {
		t.Fatalf("AmountAtRest(9.5) = %q, want 9.50", got)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Title:    "Salary",
		Type:     Income,
		Amount:   amt("1000.00"),
		Date:     "2025-01-01",
		Category: "Work",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name string
		mod  func(tx *Transaction)
		want error
	}{
		{"empty title", func(tx *Transaction) { tx.Title = "  " }, ErrEmptyTitle},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{"missing date", func(tx *Transaction) { tx.Date = "" }, ErrMissingDate},
		{"bad date", func(tx *Transaction) { tx.Date = "01/02/2025" }, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := good
			tt.mod(&tx)
			if err := tx.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRecurringBillValidate(t *testing.T) {
	good := RecurringBill{
		Title:     "Netflix",
		Type:      Subscription,
		Amount:    amt("15.99"),
		DueDate:   "2025-02-10",
		Frequency: Monthly,
		Category:  "Entertainment",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Frequency = "fortnightly"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("got %v, want %v", err, ErrInvalidFrequency)
	}

	bad = good
	bad.TrialEndDate = "soon"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("got %v, want %v", err, ErrInvalidDate)
	}
}

func TestReminderValidate(t *testing.T) {
	good := Reminder{Title: "Cancel trial", DueDate: "2025-03-01", Status: ReminderPending}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Due date is optional for reminders.
	noDue := Reminder{Title: "Someday"}
	if err := noDue.Validate(); err != nil {
		t.Fatalf("expected ok without due date, got %v", err)
	}

	bad := good
	bad.Status = "snoozed"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("got %v, want %v", err, ErrInvalidStatus)
	}
}
