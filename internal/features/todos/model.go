package todos

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/birimengo/mytrade-api/internal/features/auth"
)

// Priority levels
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Workflow statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Recurrence patterns
const (
	RecurDaily   = "daily"
	RecurWeekly  = "weekly"
	RecurMonthly = "monthly"
	RecurYearly  = "yearly"
)

// Business categories
var Categories = []string{
	"general", "production", "stock", "sales", "receipts", "orders", "finance", "meeting",
}

// EstimatedTime is a rough effort estimate attached to a task
type EstimatedTime struct {
	Value int    `bson:"value" json:"value"`
	Unit  string `bson:"unit" json:"unit" enums:"minutes,hours,days"`
}

// Task represents a reminder-bearing work item
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Tags        []string           `bson:"tags" json:"tags"`
	Priority    string             `bson:"priority" json:"priority" enums:"low,medium,high,urgent"`
	Status      string             `bson:"status" json:"status" enums:"pending,in-progress,completed,cancelled"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	DueDate       *time.Time     `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	ReminderDate  *time.Time     `bson:"reminderDate,omitempty" json:"reminderDate,omitempty"`
	EstimatedTime *EstimatedTime `bson:"estimatedTime,omitempty" json:"estimatedTime,omitempty"`

	ReminderSent          bool       `bson:"reminderSent" json:"reminderSent"`
	LastReminderSent      *time.Time `bson:"lastReminderSent,omitempty" json:"lastReminderSent,omitempty"`
	WhatsAppReminderSent  bool       `bson:"whatsappReminderSent" json:"whatsappReminderSent"`
	WhatsAppReminderCount int        `bson:"whatsappReminderCount" json:"whatsappReminderCount"`

	IsRecurring       bool       `bson:"isRecurring" json:"isRecurring"`
	RecurrencePattern string     `bson:"recurrencePattern,omitempty" json:"recurrencePattern,omitempty" enums:"daily,weekly,monthly,yearly"`
	NextRecurrence    *time.Time `bson:"nextRecurrence,omitempty" json:"nextRecurrence,omitempty"`

	// Optional link to the sale this task came from
	SaleID *primitive.ObjectID `bson:"saleId,omitempty" json:"saleId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	// Derived, never persisted
	IsOverdue bool `bson:"-" json:"isOverdue"`
}

// OverdueAt reports whether the task is past due and still open.
func (t *Task) OverdueAt(now time.Time) bool {
	if t.DueDate == nil || !t.DueDate.Before(now) {
		return false
	}
	return t.Status != StatusCompleted && t.Status != StatusCancelled
}

// Decorate fills in derived fields before the task leaves the API.
func (t *Task) Decorate(now time.Time) {
	t.IsOverdue = t.OverdueAt(now)
}

// NextOccurrence shifts a date forward by one recurrence step.
func NextOccurrence(pattern string, from time.Time) (time.Time, bool) {
	switch pattern {
	case RecurDaily:
		return from.AddDate(0, 0, 1), true
	case RecurWeekly:
		return from.AddDate(0, 0, 7), true
	case RecurMonthly:
		return from.AddDate(0, 1, 0), true
	case RecurYearly:
		return from.AddDate(1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// Successor builds the follow-up task for a recurring task whose due date
// has passed. Completion and reminder bookkeeping start from defaults; the
// predecessor itself is left untouched.
func (t *Task) Successor() (*Task, bool) {
	if !t.IsRecurring || t.DueDate == nil {
		return nil, false
	}

	nextDue, ok := NextOccurrence(t.RecurrencePattern, *t.DueDate)
	if !ok {
		return nil, false
	}

	succ := &Task{
		UserID:            t.UserID,
		Title:             t.Title,
		Description:       t.Description,
		Category:          t.Category,
		Tags:              append([]string(nil), t.Tags...),
		Priority:          t.Priority,
		Status:            StatusPending,
		DueDate:           &nextDue,
		IsRecurring:       true,
		RecurrencePattern: t.RecurrencePattern,
		SaleID:            t.SaleID,
	}

	if t.EstimatedTime != nil {
		et := *t.EstimatedTime
		succ.EstimatedTime = &et
	}
	if t.ReminderDate != nil {
		if nextReminder, ok := NextOccurrence(t.RecurrencePattern, *t.ReminderDate); ok {
			succ.ReminderDate = &nextReminder
		}
	}

	return succ, true
}

// CreateTaskRequest represents task creation data
type CreateTaskRequest struct {
	Title             string         `json:"title" binding:"required"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	Tags              []string       `json:"tags"`
	Priority          string         `json:"priority"`
	DueDate           *time.Time     `json:"dueDate"`
	ReminderDate      *time.Time     `json:"reminderDate"`
	EstimatedTime     *EstimatedTime `json:"estimatedTime"`
	IsRecurring       bool           `json:"isRecurring"`
	RecurrencePattern string         `json:"recurrencePattern"`
	SaleID            *string        `json:"saleId"`
}

// UpdateTaskRequest represents partial task update data
type UpdateTaskRequest struct {
	Title             *string        `json:"title"`
	Description       *string        `json:"description"`
	Category          *string        `json:"category"`
	Tags              []string       `json:"tags"`
	Priority          *string        `json:"priority"`
	Status            *string        `json:"status"`
	DueDate           *time.Time     `json:"dueDate"`
	ReminderDate      *time.Time     `json:"reminderDate"`
	EstimatedTime     *EstimatedTime `json:"estimatedTime"`
	IsRecurring       *bool          `json:"isRecurring"`
	RecurrencePattern *string        `json:"recurrencePattern"`
}

// ListQuery represents list filtering and pagination parameters
type ListQuery struct {
	Status    string
	Priority  string
	Category  string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// TaskWithOwner is a task with its owning user resolved, used by the
// reminder scan.
type TaskWithOwner struct {
	Task  `bson:",inline"`
	Owner auth.User `bson:"owner" json:"owner"`
}

// BucketCount is one row of a grouped aggregation
type BucketCount struct {
	Key   string `bson:"_id" json:"key"`
	Count int64  `bson:"count" json:"count"`
}

// Stats summarizes a user's tasks
type Stats struct {
	Total              int64         `json:"total"`
	ByStatus           []BucketCount `json:"byStatus"`
	ByPriority         []BucketCount `json:"byPriority"`
	ByCategory         []BucketCount `json:"byCategory"`
	Overdue            int64         `json:"overdue"`
	DueToday           int64         `json:"dueToday"`
	CompletedLast7Days int64         `json:"completedLast7Days"`
}
