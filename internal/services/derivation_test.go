package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"ledgerly/internal/core"
)

func tx(kind core.TransactionType, amount string) core.Transaction {
	return core.Transaction{Title: "t", Type: kind, Amount: decimal.RequireFromString(amount)}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		transactions []core.Transaction
		wantIncome   string
		wantExpenses string
	}{
		{
			name:         "empty list yields zero summary",
			transactions: nil,
			wantIncome:   "0",
			wantExpenses: "0",
		},
		{
			name: "partitions strictly by type",
			transactions: []core.Transaction{
				tx(core.Income, "1000.00"),
				tx(core.Expense, "19.99"),
				tx(core.Income, "250.50"),
				tx(core.Expense, "0.01"),
			},
			wantIncome:   "1250.50",
			wantExpenses: "20.00",
		},
		{
			name:         "income only",
			transactions: []core.Transaction{tx(core.Income, "1000.00")},
			wantIncome:   "1000.00",
			wantExpenses: "0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.transactions)
			require.True(t, got.Income.Equal(decimal.RequireFromString(tt.wantIncome)),
				"income = %s, want %s", got.Income, tt.wantIncome)
			require.True(t, got.Expenses.Equal(decimal.RequireFromString(tt.wantExpenses)),
				"expenses = %s, want %s", got.Expenses, tt.wantExpenses)
		})
	}
}

func TestSummarizePartitionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 50).Draw(t, "n")
		var transactions []core.Transaction
		wantIncome, wantExpenses := decimal.Zero, decimal.Zero
		for i := 0; i < n; i++ {
			cents := rapid.Int64Range(1, 10_000_00).Draw(t, fmt.Sprintf("cents%d", i))
			amount := decimal.New(cents, -2)
			if rapid.Bool().Draw(t, fmt.Sprintf("income%d", i)) {
				transactions = append(transactions, tx(core.Income, amount.String()))
				wantIncome = wantIncome.Add(amount)
			} else {
				transactions = append(transactions, tx(core.Expense, amount.String()))
				wantExpenses = wantExpenses.Add(amount)
			}
		}

		got := Summarize(transactions)
		require.True(t, got.Income.Equal(wantIncome))
		require.True(t, got.Expenses.Equal(wantExpenses))
	})
}

func TestClassifyBillStatus(t *testing.T) {
	tests := []struct {
		name string
		bill core.RecurringBill
		want BillStatus
	}{
		{"unpaid without trial is due", core.RecurringBill{}, BillDue},
		{"trial end date set is trial", core.RecurringBill{TrialEndDate: "2025-01-01"}, BillTrial},
		{"paid is paid", core.RecurringBill{IsPaid: true}, BillPaid},
		{"paid precedes trial", core.RecurringBill{IsPaid: true, TrialEndDate: "2025-01-01"}, BillPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ClassifyBillStatus(tt.bill))
		})
	}
}

func TestDateBucket(t *testing.T) {
	today := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC) // time-of-day must not matter

	tests := []struct {
		name    string
		dueDate string
		want    Bucket
	}{
		{"same day", "2025-06-10", BucketToday},
		{"next day", "2025-06-11", BucketTomorrow},
		{"two days out", "2025-06-12", BucketUpcoming},
		{"window far end inclusive", "2025-06-17", BucketUpcoming},
		{"past the window", "2025-06-18", BucketNone},
		{"yesterday", "2025-06-09", BucketNone},
		{"empty date", "", BucketNone},
		{"malformed date", "tomorrow-ish", BucketNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DateBucket(tt.dueDate, today, DefaultUpcomingWindowDays))
		})
	}
}

func TestUpcomingReminders(t *testing.T) {
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	pending := func(title, due string) core.Reminder {
		return core.Reminder{Title: title, DueDate: due, Status: core.ReminderPending}
	}

	reminders := []core.Reminder{
		pending("due today", "2025-06-10"),
		pending("in window", "2025-06-14"),
		pending("window far end", "2025-06-17"),
		pending("past window", "2025-06-18"),
		pending("already overdue", "2025-06-09"),
		pending("no due date", ""),
		{Title: "dismissed", DueDate: "2025-06-12", Status: core.ReminderDismissed},
		{Title: "triggered", DueDate: "2025-06-12", Status: core.ReminderTriggered},
	}

	got := UpcomingReminders(reminders, today, 7)
	require.Len(t, got, 3)
	require.Equal(t, "due today", got[0].Title)
	require.Equal(t, "in window", got[1].Title)
	require.Equal(t, "window far end", got[2].Title)
}
