package storage

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ledgerly/internal/core"
	"ledgerly/internal/log"
)

type reminderDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	DueDate     *time.Time         `bson:"dueDate"`
	Status      string             `bson:"status"`
	IsRead      bool               `bson:"isRead"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d reminderDoc) owner() string { return d.UserID }

// ReminderPatch carries partial fields for a reminder update.
type ReminderPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Status      *core.ReminderStatus
	IsRead      *bool
}

// ReminderStore is the ownership-scoped record store over the reminders
// collection.
type ReminderStore struct {
	store  store[reminderDoc]
	logger *log.Logger
	now    func() time.Time
}

func NewReminderStore(provider CollectionProvider, logger *log.Logger) *ReminderStore {
	return &ReminderStore{
		store:  store[reminderDoc]{coll: provider.Collection(RemindersCollection), kind: "reminder"},
		logger: logger.WithComponent(log.ComponentReminders),
		now:    time.Now,
	}
}

// Create persists a new reminder for userID. New reminders start pending
// and unread regardless of input.
func (s *ReminderStore) Create(ctx context.Context, userID string, r core.Reminder) (core.Reminder, error) {
	if userID == "" {
		return core.Reminder{}, core.ErrUnauthenticated
	}
	if err := r.Validate(); err != nil {
		return core.Reminder{}, err
	}

	dueDate, err := core.ToStorageInstant(r.DueDate)
	if err != nil {
		return core.Reminder{}, err
	}

	doc := reminderDoc{
		UserID:      userID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     dueDate,
		Status:      string(core.ReminderPending),
		IsRead:      false,
		CreatedAt:   s.now().UTC(),
	}

	id, err := s.store.insert(ctx, doc)
	if err != nil {
		return core.Reminder{}, err
	}

	s.logger.InfoContext(ctx, "Reminder created",
		log.FieldOperation, log.OpCreate,
		log.FieldUserID, userID,
		log.FieldRecordID, id)

	r.ID = id
	r.UserID = userID
	r.Status = core.ReminderPending
	r.IsRead = false
	r.CreatedAt = doc.CreatedAt
	return r, nil
}

// ListForUser returns the user's reminders sorted ascending by due date;
// reminders with no due date sort last. With no active session it fails
// closed with an empty list.
func (s *ReminderStore) ListForUser(ctx context.Context, userID string) ([]core.Reminder, error) {
	if userID == "" {
		return []core.Reminder{}, nil
	}
	docs, err := s.store.listOwnedBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	reminders := make([]core.Reminder, 0, len(docs))
	for _, d := range docs {
		reminders = append(reminders, d.toRecord())
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		a, b := reminders[i].DueDate, reminders[j].DueDate
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})
	return reminders, nil
}

// Update applies partial fields after verifying ownership.
func (s *ReminderStore) Update(ctx context.Context, userID, id string, patch ReminderPatch) error {
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
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.DueDate != nil {
		due, err := core.ToStorageInstant(*patch.DueDate)
		if err != nil {
			return err
		}
		fields["dueDate"] = due
	}
	if patch.Status != nil {
		switch *patch.Status {
		case core.ReminderPending, core.ReminderTriggered, core.ReminderDismissed:
		default:
			return core.ErrInvalidStatus
		}
		fields["status"] = string(*patch.Status)
	}
	if patch.IsRead != nil {
		fields["isRead"] = *patch.IsRead
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.store.setFields(ctx, id, fields); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Reminder updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldUserID, userID,
		log.FieldRecordID, id)
	return nil
}

// MarkRead flags the reminder as seen without touching its lifecycle state.
func (s *ReminderStore) MarkRead(ctx context.Context, userID, id string) error {
	read := true
	return s.Update(ctx, userID, id, ReminderPatch{IsRead: &read})
}

// MarkTriggered transitions the reminder out of pending; it no longer
// appears in upcoming lists.
func (s *ReminderStore) MarkTriggered(ctx context.Context, userID, id string) error {
	status := core.ReminderTriggered
	return s.Update(ctx, userID, id, ReminderPatch{Status: &status})
}

// MarkDismissed transitions the reminder out of pending; it no longer
// appears in upcoming lists.
func (s *ReminderStore) MarkDismissed(ctx context.Context, userID, id string) error {
	status := core.ReminderDismissed
	return s.Update(ctx, userID, id, ReminderPatch{Status: &status})
}

// Delete removes the record after verifying ownership.
func (s *ReminderStore) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}
	if err := s.store.requireOwner(ctx, id, userID); err != nil {
		return err
	}
	if err := s.store.deleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Reminder deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldUserID, userID,
		log.FieldRecordID, id)
	return nil
}

func (d reminderDoc) toRecord() core.Reminder {
	return core.Reminder{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     core.FromStorageInstant(d.DueDate),
		Status:      core.ReminderStatus(d.Status),
		IsRead:      d.IsRead,
		CreatedAt:   d.CreatedAt,
	}
}
