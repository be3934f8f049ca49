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

// transactionDoc is the persisted shape of a transaction. Dates are native
// timestamps on disk; amounts are two-fraction-digit decimal strings.
type transactionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Title     string             `bson:"title"`
	Type      string             `bson:"type"`
	Amount    string             `bson:"amount"`
	Date      *time.Time         `bson:"date"`
	Category  string             `bson:"category"`
	Company   string             `bson:"company,omitempty"`
	Frequency string             `bson:"frequency,omitempty"`
	Notes     string             `bson:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d transactionDoc) owner() string { return d.UserID }

// TransactionPatch carries partial fields for an update. Nil members are
// left untouched.
type TransactionPatch struct {
	Title    *string
	Type     *core.TransactionType
	Amount   *decimal.Decimal
	Date     *string
	Category *string
	Company  *string
	Notes    *string
}

// TransactionStore is the ownership-scoped record store over the
// transactions collection.
type TransactionStore struct {
	store  store[transactionDoc]
	logger *log.Logger
	now    func() time.Time
}

// NewTransactionStore creates a TransactionStore over the provider's
// transactions collection.
func NewTransactionStore(provider CollectionProvider, logger *log.Logger) *TransactionStore {
	return &TransactionStore{
		store:  store[transactionDoc]{coll: provider.Collection(TransactionsCollection), kind: "transaction"},
		logger: logger.WithComponent(log.ComponentTransactions),
		now:    time.Now,
	}
}

// Create persists a new transaction for userID, stamping ownership and
// creation time. It fails with ErrUnauthenticated when no session is active.
func (s *TransactionStore) Create(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	if userID == "" {
		return core.Transaction{}, core.ErrUnauthenticated
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	date, err := core.ToStorageInstant(tx.Date)
	if err != nil {
		return core.Transaction{}, err
	}

	doc := transactionDoc{
		UserID:    userID,
		Title:     tx.Title,
		Type:      string(tx.Type),
		Amount:    core.AmountAtRest(tx.Amount),
		Date:      date,
		Category:  tx.Category,
		Company:   tx.Company,
		Frequency: tx.Frequency,
		Notes:     tx.Notes,
		CreatedAt: s.now().UTC(),
	}

	id, err := s.store.insert(ctx, doc)
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction created",
		log.FieldOperation, log.OpCreate,
		log.FieldUserID, userID,
		log.FieldRecordID, id,
		"type", doc.Type,
		"amount", doc.Amount)

	tx.ID = id
	tx.UserID = userID
	tx.CreatedAt = doc.CreatedAt
	return tx, nil
}

// ListForUser returns the user's transactions sorted by date descending.
// With no active session it fails closed: an empty list, not an error.
func (s *TransactionStore) ListForUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	if userID == "" {
		return []core.Transaction{}, nil
	}
	docs, err := s.store.listOwnedBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	transactions := make([]core.Transaction, 0, len(docs))
	for _, d := range docs {
		tx, err := d.toRecord()
		if err != nil {
			return nil, remoteErr("decode", s.store.kind, err)
		}
		transactions = append(transactions, tx)
	}

	// Most recent first. YYYY-MM-DD strings sort lexicographically.
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date > transactions[j].Date
	})
	return transactions, nil
}

// ListForUserByType applies the income/expense filter client-side after the
// ownership-scoped read.
func (s *TransactionStore) ListForUserByType(ctx context.Context, userID string, filter core.TransactionType) ([]core.Transaction, error) {
	transactions, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return transactions, nil
	}
	filtered := make([]core.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Type == filter {
			filtered = append(filtered, tx)
		}
	}
	return filtered, nil
}

// Update applies partial fields after verifying ownership. The ownership
// check strictly precedes the mutation.
func (s *TransactionStore) Update(ctx context.Context, userID, id string, patch TransactionPatch) error {
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
	if patch.Date != nil {
		// The date is mandatory at create; a patch may not clear it.
		if *patch.Date == "" {
			return core.ErrMissingDate
		}
		date, err := core.ToStorageInstant(*patch.Date)
		if err != nil {
			return err
		}
		fields["date"] = date
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	if patch.Company != nil {
		fields["company"] = *patch.Company
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
	s.logger.InfoContext(ctx, "Transaction updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldUserID, userID,
		log.FieldRecordID, id)
	return nil
}

// Delete removes the record after verifying ownership.
func (s *TransactionStore) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}
	if err := s.store.requireOwner(ctx, id, userID); err != nil {
		return err
	}
	if err := s.store.deleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldUserID, userID,
		log.FieldRecordID, id)
	return nil
}

func (d transactionDoc) toRecord() (core.Transaction, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Title:     d.Title,
		Type:      core.TransactionType(d.Type),
		Amount:    amount,
		Date:      core.FromStorageInstant(d.Date),
		Category:  d.Category,
		Company:   d.Company,
		Frequency: d.Frequency,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
	}, nil
}
