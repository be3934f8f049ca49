package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ledgerly/internal/core"
	"ledgerly/internal/services"
)

func newReminderStore(t *testing.T) *ReminderStore {
	t.Helper()
	return NewReminderStore(NewFakeProvider(), testLogger())
}

func TestReminderStore_CreateStartsPendingUnread(t *testing.T) {
	store := newReminderStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "user-a", core.Reminder{
		Title:   "Cancel trial",
		DueDate: "2025-03-01",
		// Client-supplied lifecycle state is ignored on create.
		Status: core.ReminderDismissed,
		IsRead: true,
	})
	require.NoError(t, err)
	require.Equal(t, core.ReminderPending, created.Status)
	require.False(t, created.IsRead)

	listed, err := store.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, core.ReminderPending, listed[0].Status)
	require.False(t, listed[0].IsRead)
}

func TestReminderStore_ListSortsDueDateAscendingMissingLast(t *testing.T) {
	store := newReminderStore(t)
	ctx := context.Background()

	for _, r := range []core.Reminder{
		{Title: "no date"},
		{Title: "later", DueDate: "2025-06-20"},
		{Title: "sooner", DueDate: "2025-06-11"},
	} {
		_, err := store.Create(ctx, "user-a", r)
		require.NoError(t, err)
	}

	listed, err := store.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	require.Equal(t, []string{"sooner", "later", "no date"},
		[]string{listed[0].Title, listed[1].Title, listed[2].Title})
}

func TestReminderStore_LifecycleTransitions(t *testing.T) {
	store := newReminderStore(t)
	ctx := context.Background()
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	created, err := store.Create(ctx, "user-a", core.Reminder{Title: "Pay rent", DueDate: "2025-06-12"})
	require.NoError(t, err)

	listed, err := store.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, services.UpcomingReminders(listed, today, 7), 1)

	// Dismissed reminders drop out of the upcoming window.
	require.NoError(t, store.MarkDismissed(ctx, "user-a", created.ID))
	listed, err = store.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	require.Equal(t, core.ReminderDismissed, listed[0].Status)
	require.Empty(t, services.UpcomingReminders(listed, today, 7))
}

func TestReminderStore_MarkRead(t *testing.T) {
	store := newReminderStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "user-a", core.Reminder{Title: "Check statement"})
	require.NoError(t, err)

	require.NoError(t, store.MarkRead(ctx, "user-a", created.ID))
	listed, err := store.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	require.True(t, listed[0].IsRead)
	// Reading does not change lifecycle state.
	require.Equal(t, core.ReminderPending, listed[0].Status)
}

func TestReminderStore_UpdateEnforcesOwnership(t *testing.T) {
	store := newReminderStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "user-a", core.Reminder{Title: "Mine"})
	require.NoError(t, err)

	require.ErrorIs(t, store.MarkDismissed(ctx, "user-b", created.ID), core.ErrForbidden)
	require.ErrorIs(t, store.Delete(ctx, "user-b", created.ID), core.ErrForbidden)

	listed, err := store.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, core.ReminderPending, listed[0].Status)
}

func TestReminderStore_UpdateRejectsUnknownStatus(t *testing.T) {
	store := newReminderStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "user-a", core.Reminder{Title: "Mine"})
	require.NoError(t, err)

	bogus := core.ReminderStatus("snoozed")
	err = store.Update(ctx, "user-a", created.ID, ReminderPatch{Status: &bogus})
	require.ErrorIs(t, err, core.ErrValidation)
}
