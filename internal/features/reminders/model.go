package reminders

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/birimengo/mytrade-api/internal/features/auth"
	"github.com/birimengo/mytrade-api/internal/features/todos"
)

// Delivery channels
const (
	ServiceWhatsApp = "whatsapp"
	ServiceNone     = "none"
)

// Reminder is the view handed to the formatter and dispatcher: one task,
// its resolved owner, and whether this is an overdue alert rather than the
// scheduled reminder.
type Reminder struct {
	Task    todos.Task
	Owner   auth.User
	Overdue bool
}

// DispatchResult is the outcome of one delivery attempt.
type DispatchResult struct {
	Success     bool   `json:"success"`
	ServiceUsed string `json:"serviceUsed"`
	Error       string `json:"error,omitempty"`
}

// TaskResult records the outcome of one task inside a scan pass.
type TaskResult struct {
	TaskID      primitive.ObjectID `json:"taskId"`
	Title       string             `json:"title"`
	Success     bool               `json:"success"`
	ServiceUsed string             `json:"serviceUsed,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// Report aggregates one scan pass. A failed task never aborts the pass;
// it is counted here instead.
type Report struct {
	Sent    int          `json:"sent"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
	Total   int          `json:"total"`
	Results []TaskResult `json:"results"`
}

// RecurrenceReport aggregates one recurrence pass.
type RecurrenceReport struct {
	Spawned int `json:"spawned"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}
