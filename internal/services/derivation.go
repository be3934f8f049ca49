// Package services provides business logic derived from stored records.
//
// Everything in this file is a pure function over record slices: summary
// aggregation from transactions, paid/trial/due classification of recurring
// bills, and day-granularity date bucketing for reminders. No function here
// touches the store.
package services

import (
	"time"

	"github.com/shopspring/decimal"

	"ledgerly/internal/core"
)

// BillStatus is the derived state of a recurring bill. It is computed on
// demand and never persisted.
type BillStatus string

const (
	BillPaid  BillStatus = "paid"
	BillTrial BillStatus = "trial"
	BillDue   BillStatus = "due"
)

// Bucket classifies a due date relative to the current day.
type Bucket string

const (
	BucketToday    Bucket = "today"
	BucketTomorrow Bucket = "tomorrow"
	BucketUpcoming Bucket = "upcoming"
	BucketNone     Bucket = "none"
)

// DefaultUpcomingWindowDays is the inclusive horizon used to decide which
// pending reminders are surfaced.
const DefaultUpcomingWindowDays = 7

// Summary holds income and expense totals for a transaction list.
type Summary struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Summarize folds a transaction list into income and expense totals,
// partitioning strictly by type. An empty input yields a zero summary.
func Summarize(transactions []core.Transaction) Summary {
	s := Summary{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, tx := range transactions {
		if tx.Type == core.Income {
			s.Income = s.Income.Add(tx.Amount)
		} else {
			s.Expenses = s.Expenses.Add(tx.Amount)
		}
	}
	return s
}

// ClassifyBillStatus derives the status of a recurring bill. The checks are
// order-sensitive: paid takes precedence over trial.
func ClassifyBillStatus(bill core.RecurringBill) BillStatus {
	if bill.IsPaid {
		return BillPaid
	}
	if bill.TrialEndDate != "" {
		return BillTrial
	}
	return BillDue
}

// DateBucket classifies dueDate against today at day granularity. The
// upcoming bucket covers dates strictly after tomorrow through
// today+windowDays, inclusive of the far end. Empty or malformed dates
// bucket as none.
func DateBucket(dueDate string, today time.Time, windowDays int) Bucket {
	due, err := core.ParseCalendarDate(dueDate)
	if err != nil {
		return BucketNone
	}
	day := core.Truncate(today)

	switch {
	case due.Equal(day):
		return BucketToday
	case due.Equal(day.AddDate(0, 0, 1)):
		return BucketTomorrow
	case due.After(day.AddDate(0, 0, 1)) && !due.After(day.AddDate(0, 0, windowDays)):
		return BucketUpcoming
	default:
		return BucketNone
	}
}

// UpcomingReminders filters to pending reminders whose due date falls within
// today through today+windowDays inclusive. Input order is preserved, so a
// list already sorted ascending by due date stays sorted.
func UpcomingReminders(reminders []core.Reminder, today time.Time, windowDays int) []core.Reminder {
	day := core.Truncate(today)
	end := day.AddDate(0, 0, windowDays)

	upcoming := make([]core.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if r.Status != core.ReminderPending || r.DueDate == "" {
			continue
		}
		due, err := core.ParseCalendarDate(r.DueDate)
		if err != nil {
			continue
		}
		if due.Before(day) || due.After(end) {
			continue
		}
		upcoming = append(upcoming, r)
	}
	return upcoming
}
