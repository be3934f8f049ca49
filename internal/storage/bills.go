package storage

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ledgerly/internal/core"
	"ledgerly/internal/log"
)

type billDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         string             `bson:"userId"`
	Title          string             `bson:"title"`
	Type           string             `bson:"type"`
	Amount         string             `bson:"amount"`
	DueDate        *time.Time         `bson:"dueDate"`
	Frequency      string             `bson:"frequency"`
	Category       string             `bson:"category"`
	Provider       string             `bson:"provider,omitempty"`
	IsPaid         bool               `bson:"isPaid"`
	IsTrial        bool               `bson:"isTrial"`
	TrialEndDate   *time.Time         `bson:"trialEndDate"`
	LastPaid       *time.Time         `bson:"lastPaid"`
	AutoPayEnabled bool               `bson:"autoPayEnabled,omitempty"`
	Notes          string             `bson:"notes,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

func (d billDoc) owner() string { return d.UserID }

// BillPatch carries partial fields for a recurring-bill update.
type BillPatch struct {
	Title          *string
	Type           *core.BillType
	Amount         *decimal.Decimal
	DueDate        *string
	Frequency      *core.Frequency
	Category       *string
	Provider       *string
	IsPaid         *bool
	IsTrial        *bool
	TrialEndDate   *string
	LastPaid       *string
	AutoPayEnabled *bool
	Notes          *string
}

// BillStore is the ownership-scoped record store over the recurringBills
// collection.
type BillStore struct {
	store  store[billDoc]
	logger *log.Logger
	now    func() time.Time
}

func NewBillStore(provider CollectionProvider, logger *log.Logger) *BillStore {
	return &BillStore{
		store:  store[billDoc]{coll: provider.Collection(RecurringBillsCollection), kind: "recurring bill"},
		logger: logger.WithComponent(log.ComponentBills),
		now:    time.Now,
	}
}

// Create persists a new recurring bill for userID. isPaid defaults false;
// absent date fields persist as null, never as empty strings.
func (s *BillStore) Create(ctx context.Context, userID string, bill core.RecurringBill) (core.RecurringBill, error) {
	if userID == "" {
		return core.RecurringBill{}, core.ErrUnauthenticated
	}
	if err := bill.Validate(); err != nil {
		return core.RecurringBill{}, err
	}

	dueDate, err := core.ToStorageInstant(bill.DueDate)
	if err != nil {
		return core.RecurringBill{}, err
	}
	trialEnd, err := core.ToStorageInstant(bill.TrialEndDate)
	if err != nil {
		return core.RecurringBill{}, err
	}
	lastPaid, err := core.ToStorageInstant(bill.LastPaid)
	if err != nil {
		return core.RecurringBill{}, err
	}

	doc := billDoc{
		UserID:         userID,
		Title:          bill.Title,
		Type:           string(bill.Type),
		Amount:         core.AmountAtRest(bill.Amount),
		DueDate:        dueDate,
		Frequency:      string(bill.Frequency),
		Category:       bill.Category,
		Provider:       bill.Provider,
		IsPaid:         bill.IsPaid,
		IsTrial:        bill.IsTrial,
		TrialEndDate:   trialEnd,
		LastPaid:       lastPaid,
		AutoPayEnabled: bill.AutoPayEnabled,
		Notes:          bill.Notes,
		CreatedAt:      s.now().UTC(),
	}

	id, err := s.store.insert(ctx, doc)
	if err != nil {
		return core.RecurringBill{}, err
	}

	s.logger.InfoContext(ctx, "Recurring bill created",
		log.FieldOperation, log.OpCreate,
		log.FieldUserID, userID,
		log.FieldRecordID, id,
		"type", doc.Type,
		"frequency", doc.Frequency,
		"is_trial", doc.IsTrial)

	bill.ID = id
	bill.UserID = userID
	bill.CreatedAt = doc.CreatedAt
	return bill, nil
}

// ListForUser returns the user's bills sorted by creation time descending.
// With no active session it fails closed with an empty list.
func (s *BillStore) ListForUser(ctx context.Context, userID string) ([]core.RecurringBill, error) {
	if userID == "" {
		return []core.RecurringBill{}, nil
	}
	docs, err := s.store.listOwnedBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	bills := make([]core.RecurringBill, 0, len(docs))
	for _, d := range docs {
		bill, err := d.toRecord()
		if err != nil {
			return nil, remoteErr("decode", s.store.kind, err)
		}
		bills = append(bills, bill)
	}

	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].CreatedAt.After(bills[j].CreatedAt)
	})
	return bills, nil
}

// Update applies partial fields after verifying ownership.
func (s *BillStore) Update(ctx context.Context, userID, id string, patch BillPatch) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}
	if err := s.store.requireOwner(ctx, id, userID); err != nil {
		return err
	}

	fields := bson.M{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Type != nil {
		fields["type"] = string(*patch.Type)
	}
	if patch.Amount != nil {
		if err := core.ValidateAmount(*patch.Amount); err != nil {
			return err
		}
		fields["amount"] = core.AmountAtRest(*patch.Amount)
	}
	if patch.DueDate != nil {
		// The due date is mandatory at create; a patch may not clear it.
		if *patch.DueDate == "" {
			return core.ErrMissingDate
		}
		due, err := core.ToStorageInstant(*patch.DueDate)
		if err != nil {
			return err
		}
		fields["dueDate"] = due
	}
	if patch.Frequency != nil {
		fields["frequency"] = string(*patch.Frequency)
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	if patch.Provider != nil {
		fields["provider"] = *patch.Provider
	}
	if patch.IsPaid != nil {
		fields["isPaid"] = *patch.IsPaid
	}
	if patch.IsTrial != nil {
		fields["isTrial"] = *patch.IsTrial
	}
	if patch.TrialEndDate != nil {
		trialEnd, err := core.ToStorageInstant(*patch.TrialEndDate)
		if err != nil {
			return err
		}
		fields["trialEndDate"] = trialEnd
	}
	if patch.LastPaid != nil {
		lastPaid, err := core.ToStorageInstant(*patch.LastPaid)
		if err != nil {
			return err
		}
		fields["lastPaid"] = lastPaid
	}
	if patch.AutoPayEnabled != nil {
		fields["autoPayEnabled"] = *patch.AutoPayEnabled
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.store.setFields(ctx, id, fields); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Recurring bill updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldUserID, userID,
		log.FieldRecordID, id)
	return nil
}

// TogglePaid flips the paid flag. Marking paid stamps lastPaid with the
// current date; marking unpaid clears it. The two transitions are mutually
// exclusive on the same field pair.
func (s *BillStore) TogglePaid(ctx context.Context, userID, id string, paid bool) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}
	if err := s.store.requireOwner(ctx, id, userID); err != nil {
		return err
	}

	fields := bson.M{"isPaid": paid}
	if paid {
		today := core.Truncate(s.now())
		fields["lastPaid"] = &today
	} else {
		fields["lastPaid"] = nil
	}

	if err := s.store.setFields(ctx, id, fields); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Recurring bill paid flag toggled",
		log.FieldOperation, log.OpUpdate,
		log.FieldUserID, userID,
		log.FieldRecordID, id,
		"is_paid", paid)
	return nil
}

// Delete removes the record after verifying ownership.
func (s *BillStore) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}
	if err := s.store.requireOwner(ctx, id, userID); err != nil {
		return err
	}
	if err := s.store.deleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Recurring bill deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldUserID, userID,
		log.FieldRecordID, id)
	return nil
}

func (d billDoc) toRecord() (core.RecurringBill, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return core.RecurringBill{}, err
	}
	return core.RecurringBill{
		ID:             d.ID.Hex(),
		UserID:         d.UserID,
		Title:          d.Title,
		Type:           core.BillType(d.Type),
		Amount:         amount,
		DueDate:        core.FromStorageInstant(d.DueDate),
		Frequency:      core.Frequency(d.Frequency),
		Category:       d.Category,
		Provider:       d.Provider,
		IsPaid:         d.IsPaid,
		IsTrial:        d.IsTrial,
		TrialEndDate:   core.FromStorageInstant(d.TrialEndDate),
		LastPaid:       core.FromStorageInstant(d.LastPaid),
		AutoPayEnabled: d.AutoPayEnabled,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
	}, nil
}
