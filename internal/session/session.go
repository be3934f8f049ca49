// Package session holds per-identity application state: the last-fetched
// record lists, the derived summary, the transaction type filter, and the
// id-keyed set of in-flight operations. A Session is constructed on sign-in
// and torn down on sign-out; nothing here is process-global.
package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ledgerly/internal/auth"
	"ledgerly/internal/core"
	"ledgerly/internal/log"
	"ledgerly/internal/services"
	"ledgerly/internal/storage"
)

// Stores bundles the three record stores a session reads from.
type Stores struct {
	Transactions *storage.TransactionStore
	Bills        *storage.BillStore
	Reminders    *storage.ReminderStore
}

// Session aggregates one identity's view of its records. All refreshes are
// caller-triggered and idempotent; there is no push-based invalidation, so
// state between a write and the next refresh is expected to be stale.
type Session struct {
	identity   auth.Identity
	stores     Stores
	windowDays int
	logger     *log.Logger
	now        func() time.Time

	mu           sync.Mutex
	transactions []core.Transaction
	bills        []core.RecurringBill
	reminders    []core.Reminder
	upcoming     []core.Reminder
	summary      services.Summary
	filter       core.TransactionType
	inflight     map[string]struct{}
}

// New constructs a session for the given identity.
func New(identity auth.Identity, stores Stores, windowDays int, logger *log.Logger) *Session {
	if windowDays <= 0 {
		windowDays = services.DefaultUpcomingWindowDays
	}
	return &Session{
		identity:   identity,
		stores:     stores,
		windowDays: windowDays,
		logger:     logger.WithComponent(log.ComponentSession),
		now:        time.Now,
		summary:    services.Summarize(nil),
		inflight:   make(map[string]struct{}),
	}
}

// Identity returns the identity this session was constructed for.
func (s *Session) Identity() auth.Identity {
	return s.identity
}

// RefreshTransactions re-reads the transaction list under the active filter
// and recomputes the summary. On failure the previous state is kept.
func (s *Session) RefreshTransactions(ctx context.Context) error {
	s.mu.Lock()
	filter := s.filter
	s.mu.Unlock()

	transactions, err := s.stores.Transactions.ListForUserByType(ctx, s.identity.ID, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "Transaction refresh failed",
			log.FieldOperation, log.OpRefresh,
			log.FieldUserID, s.identity.ID,
			log.FieldError, err)
		return err
	}

	s.mu.Lock()
	s.transactions = transactions
	s.summary = services.Summarize(transactions)
	s.mu.Unlock()
	return nil
}

// SetFilterAndRefresh switches the transaction type filter and refreshes
// immediately. An empty filter means all transactions.
func (s *Session) SetFilterAndRefresh(ctx context.Context, filter core.TransactionType) error {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	return s.RefreshTransactions(ctx)
}

// RefreshBills re-reads the recurring-bill list.
func (s *Session) RefreshBills(ctx context.Context) error {
	bills, err := s.stores.Bills.ListForUser(ctx, s.identity.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Bill refresh failed",
			log.FieldOperation, log.OpRefresh,
			log.FieldUserID, s.identity.ID,
			log.FieldError, err)
		return err
	}

	s.mu.Lock()
	s.bills = bills
	s.mu.Unlock()
	return nil
}

// RefreshReminders re-reads the reminder list and recomputes the upcoming
// window.
func (s *Session) RefreshReminders(ctx context.Context) error {
	reminders, err := s.stores.Reminders.ListForUser(ctx, s.identity.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Reminder refresh failed",
			log.FieldOperation, log.OpRefresh,
			log.FieldUserID, s.identity.ID,
			log.FieldError, err)
		return err
	}

	s.mu.Lock()
	s.reminders = reminders
	s.upcoming = services.UpcomingReminders(reminders, s.now(), s.windowDays)
	s.mu.Unlock()
	return nil
}

// RefreshAll refreshes the three lists concurrently. Each refresh is
// independently idempotent, so a partial failure leaves the successful
// lists updated and reports the first error.
func (s *Session) RefreshAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.RefreshTransactions(ctx) })
	g.Go(func() error { return s.RefreshBills(ctx) })
	g.Go(func() error { return s.RefreshReminders(ctx) })
	return g.Wait()
}

// Transactions returns the last-fetched transaction list.
func (s *Session) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions
}

// Bills returns the last-fetched recurring-bill list.
func (s *Session) Bills() []core.RecurringBill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bills
}

// Reminders returns the last-fetched reminder list.
func (s *Session) Reminders() []core.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reminders
}

// Upcoming returns pending reminders due within the window, as of the last
// reminder refresh.
func (s *Session) Upcoming() []core.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upcoming
}

// Summary returns the income/expense totals derived from the last
// transaction refresh.
func (s *Session) Summary() services.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Filter returns the active transaction type filter.
func (s *Session) Filter() core.TransactionType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Begin marks an operation on a record as in flight and returns a release
// function. The set is advisory, keyed per record, so the UI can disable
// one control without blocking operations on other records. It is not a
// lock: a second operation on the same id proceeds and the store resolves
// the race.
func (s *Session) Begin(op, recordID string) func() {
	key := op + "_" + recordID
	s.mu.Lock()
	s.inflight[key] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.inflight, key)
			s.mu.Unlock()
		})
	}
}

// InFlight reports whether an operation on the record is in flight.
func (s *Session) InFlight(op, recordID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inflight[op+"_"+recordID]
	return ok
}

// Clear drops all cached lists, the filter, and the derived summary. Called
// on teardown.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = nil
	s.bills = nil
	s.reminders = nil
	s.upcoming = nil
	s.summary = services.Summarize(nil)
	s.filter = ""
	s.inflight = make(map[string]struct{})
}
