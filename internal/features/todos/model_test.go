package todos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestOverdueAt(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	task := Task{Status: StatusPending}
	require.False(t, task.OverdueAt(now), "no due date is never overdue")

	task.DueDate = timePtr(now.Add(time.Hour))
	require.False(t, task.OverdueAt(now), "future due date is not overdue")

	task.DueDate = timePtr(now.Add(-time.Hour))
	require.True(t, task.OverdueAt(now))

	task.Status = StatusInProgress
	require.True(t, task.OverdueAt(now))

	task.Status = StatusCompleted
	require.False(t, task.OverdueAt(now), "completed tasks are never overdue")

	task.Status = StatusCancelled
	require.False(t, task.OverdueAt(now), "cancelled tasks are never overdue")
}

func TestNextOccurrence(t *testing.T) {
	from := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	cases := map[string]time.Time{
		RecurDaily:   time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC),
		RecurWeekly:  time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC),
		RecurMonthly: time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC),
		RecurYearly:  time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	}

	for pattern, want := range cases {
		got, ok := NextOccurrence(pattern, from)
		require.True(t, ok, pattern)
		require.Equal(t, want, got, pattern)
	}

	_, ok := NextOccurrence("fortnightly", from)
	require.False(t, ok)
}

func TestSuccessor(t *testing.T) {
	due := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	reminder := due.Add(-time.Hour)
	completed := due.Add(time.Hour)

	task := Task{
		Title:             "Restock shelves",
		Description:       "Weekly restock",
		Category:          "stock",
		Tags:              []string{"warehouse"},
		Priority:          PriorityHigh,
		Status:            StatusCompleted,
		CompletedAt:       &completed,
		DueDate:           &due,
		ReminderDate:      &reminder,
		EstimatedTime:     &EstimatedTime{Value: 2, Unit: "hours"},
		ReminderSent:      true,
		IsRecurring:       true,
		RecurrencePattern: RecurDaily,
	}

	succ, ok := task.Successor()
	require.True(t, ok)

	require.Equal(t, time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC), *succ.DueDate)
	require.Equal(t, reminder.AddDate(0, 0, 1), *succ.ReminderDate)
	require.Equal(t, StatusPending, succ.Status)
	require.Nil(t, succ.CompletedAt)
	require.False(t, succ.ReminderSent)
	require.False(t, succ.WhatsAppReminderSent)
	require.Zero(t, succ.WhatsAppReminderCount)
	require.True(t, succ.IsRecurring)
	require.Equal(t, RecurDaily, succ.RecurrencePattern)
	require.Equal(t, task.Title, succ.Title)
	require.Equal(t, *task.EstimatedTime, *succ.EstimatedTime)

	// Shared slices must not alias the predecessor
	succ.Tags[0] = "changed"
	require.Equal(t, "warehouse", task.Tags[0])
}

func TestSuccessorNonRecurring(t *testing.T) {
	due := time.Now()
	task := Task{DueDate: &due}
	_, ok := task.Successor()
	require.False(t, ok)

	task = Task{IsRecurring: true, RecurrencePattern: RecurDaily}
	_, ok = task.Successor()
	require.False(t, ok, "recurring task without a due date cannot spawn")
}

func TestEstimatedTimeRoundTrip(t *testing.T) {
	task := Task{
		Title:         "Count stock",
		EstimatedTime: &EstimatedTime{Value: 3, Unit: "hours"},
	}

	raw, err := bson.Marshal(task)
	require.NoError(t, err)

	var decoded Task
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	require.NotNil(t, decoded.EstimatedTime)
	require.Equal(t, 3, decoded.EstimatedTime.Value)
	require.Equal(t, "hours", decoded.EstimatedTime.Unit)
}

func TestStaleReminderReset(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	task := &Task{
		ReminderDate:         &past,
		ReminderSent:         false,
		WhatsAppReminderSent: true,
	}
	applyStaleReminderReset(task, now)
	require.False(t, task.ReminderSent)
	require.False(t, task.WhatsAppReminderSent, "stale reminder forces the WhatsApp flag back down")

	// A dispatched reminder is left alone
	task = &Task{
		ReminderDate:         &past,
		ReminderSent:         true,
		WhatsAppReminderSent: true,
	}
	applyStaleReminderReset(task, now)
	require.True(t, task.WhatsAppReminderSent)

	// A future reminder is left alone
	future := now.Add(time.Hour)
	task = &Task{
		ReminderDate:         &future,
		WhatsAppReminderSent: true,
	}
	applyStaleReminderReset(task, now)
	require.True(t, task.WhatsAppReminderSent)
}
