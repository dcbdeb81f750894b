package reminders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/birimengo/mytrade-api/internal/features/auth"
	"github.com/birimengo/mytrade-api/internal/features/todos"
)

func TestFormatMessageReminder(t *testing.T) {
	due := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	msg := FormatMessage(Reminder{
		Task: todos.Task{
			Title:       "Restock shelves",
			Description: "Aisle 4 first",
			DueDate:     &due,
			Priority:    todos.PriorityHigh,
			Status:      todos.StatusPending,
			Tags:        []string{"stock", "urgent"},
			EstimatedTime: &todos.EstimatedTime{
				Value: 2,
				Unit:  "hours",
			},
		},
	})

	assert.True(t, strings.HasPrefix(msg, "⏰ *Task Reminder*"))
	assert.Contains(t, msg, "📌 *Restock shelves*")
	assert.Contains(t, msg, "📅 Due: Sat, 14 Mar 2026 09:30")
	assert.Contains(t, msg, "🟠 Priority: high")
	assert.Contains(t, msg, "🔄 Status: pending")
	assert.Contains(t, msg, "📝 Aisle 4 first")
	assert.Contains(t, msg, "⏱ Estimated: 2 hours")
	assert.Contains(t, msg, "🏷 Tags: stock, urgent")
	assert.NotContains(t, msg, "Overdue")
}

func TestFormatMessageOverdue(t *testing.T) {
	msg := FormatMessage(Reminder{
		Task: todos.Task{
			Title:    "Pay supplier",
			Priority: todos.PriorityUrgent,
			Status:   todos.StatusInProgress,
		},
		Overdue: true,
	})

	assert.True(t, strings.HasPrefix(msg, "⚠️ *Task Overdue!*"))
	assert.Contains(t, msg, "🔴 Priority: urgent")
	assert.True(t, strings.HasSuffix(msg, "Please attend to this task as soon as possible."))
}

func TestFormatMessageOmitsEmptySections(t *testing.T) {
	msg := FormatMessage(Reminder{
		Task: todos.Task{
			Title:    "Bare task",
			Priority: todos.PriorityLow,
			Status:   todos.StatusPending,
		},
	})

	assert.NotContains(t, msg, "📅")
	assert.NotContains(t, msg, "📝")
	assert.NotContains(t, msg, "⏱")
	assert.NotContains(t, msg, "🏷")
}

func TestPriorityBadge(t *testing.T) {
	assert.Equal(t, "🟢", priorityBadge(todos.PriorityLow))
	assert.Equal(t, "🟡", priorityBadge(todos.PriorityMedium))
	assert.Equal(t, "🟠", priorityBadge(todos.PriorityHigh))
	assert.Equal(t, "🔴", priorityBadge(todos.PriorityUrgent))
	assert.Equal(t, "⚪", priorityBadge("unheard-of"))
}

func TestDispatchFallsBackToOwnerPhone(t *testing.T) {
	transport := &fakeTransport{}
	d := NewDispatcher(transport)

	result := d.Dispatch(context.Background(), Reminder{
		Task: todos.Task{Title: "Call customer", Priority: todos.PriorityMedium, Status: todos.StatusPending},
		Owner: auth.User{
			Phone: "256701000111",
			Notifications: auth.NotificationSettings{
				WhatsAppEnabled: true,
				CallMeBotKey:    "key",
			},
		},
	})

	assert.True(t, result.Success)
	assert.Equal(t, []string{"256701000111"}, transport.calls)
}

func TestDispatchFailsFastWithoutKey(t *testing.T) {
	transport := &fakeTransport{}
	d := NewDispatcher(transport)

	result := d.Dispatch(context.Background(), Reminder{
		Owner: auth.User{
			Phone:         "256701000111",
			Notifications: auth.NotificationSettings{WhatsAppEnabled: true},
		},
	})

	assert.False(t, result.Success)
	assert.Equal(t, ServiceNone, result.ServiceUsed)
	assert.Empty(t, transport.calls)
}
