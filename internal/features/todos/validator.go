package todos

import (
	"strings"

	"github.com/birimengo/mytrade-api/internal/pkg/validator"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 1000
)

func isValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func isValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func isValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func isValidRecurrence(pattern string) bool {
	switch pattern {
	case RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return true
	}
	return false
}

func isValidEstimateUnit(unit string) bool {
	switch unit {
	case "minutes", "hours", "days":
		return true
	}
	return false
}

// ValidateCreate checks a creation payload field by field.
func ValidateCreate(req *CreateTaskRequest) validator.FieldErrors {
	var errs validator.FieldErrors

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		errs.Add("title", "title is required")
	} else if len(req.Title) > maxTitleLength {
		errs.Add("title", "title cannot exceed 200 characters")
	}

	if len(req.Description) > maxDescriptionLength {
		errs.Add("description", "description cannot exceed 1000 characters")
	}

	if req.Category != "" && !isValidCategory(req.Category) {
		errs.Add("category", "unknown category")
	}

	if req.Priority != "" && !isValidPriority(req.Priority) {
		errs.Add("priority", "priority must be one of low, medium, high, urgent")
	}

	if req.EstimatedTime != nil {
		if req.EstimatedTime.Value <= 0 {
			errs.Add("estimatedTime.value", "value must be positive")
		}
		if !isValidEstimateUnit(req.EstimatedTime.Unit) {
			errs.Add("estimatedTime.unit", "unit must be one of minutes, hours, days")
		}
	}

	if req.IsRecurring {
		if req.RecurrencePattern == "" {
			errs.Add("recurrencePattern", "recurrence pattern is required for recurring tasks")
		} else if !isValidRecurrence(req.RecurrencePattern) {
			errs.Add("recurrencePattern", "pattern must be one of daily, weekly, monthly, yearly")
		}
		if req.DueDate == nil {
			errs.Add("dueDate", "recurring tasks need a due date")
		}
	}

	return errs
}

// ValidateUpdate checks a partial update payload field by field.
func ValidateUpdate(req *UpdateTaskRequest) validator.FieldErrors {
	var errs validator.FieldErrors

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
		if trimmed == "" {
			errs.Add("title", "title cannot be empty")
		} else if len(trimmed) > maxTitleLength {
			errs.Add("title", "title cannot exceed 200 characters")
		}
	}

	if req.Description != nil && len(*req.Description) > maxDescriptionLength {
		errs.Add("description", "description cannot exceed 1000 characters")
	}

	if req.Category != nil && !isValidCategory(*req.Category) {
		errs.Add("category", "unknown category")
	}

	if req.Priority != nil && !isValidPriority(*req.Priority) {
		errs.Add("priority", "priority must be one of low, medium, high, urgent")
	}

	if req.Status != nil && !isValidStatus(*req.Status) {
		errs.Add("status", "status must be one of pending, in-progress, completed, cancelled")
	}

	if req.EstimatedTime != nil {
		if req.EstimatedTime.Value <= 0 {
			errs.Add("estimatedTime.value", "value must be positive")
		}
		if !isValidEstimateUnit(req.EstimatedTime.Unit) {
			errs.Add("estimatedTime.unit", "unit must be one of minutes, hours, days")
		}
	}

	if req.RecurrencePattern != nil && !isValidRecurrence(*req.RecurrencePattern) {
		errs.Add("recurrencePattern", "pattern must be one of daily, weekly, monthly, yearly")
	}

	return errs
}

// NormalizeListQuery clamps and defaults list parameters.
func NormalizeListQuery(q *ListQuery) {
	if q.Status != "" && !isValidStatus(q.Status) {
		q.Status = ""
	}
	if q.Priority != "" && !isValidPriority(q.Priority) {
		q.Priority = ""
	}
	if q.Category != "" && !isValidCategory(q.Category) {
		q.Category = ""
	}

	switch q.SortBy {
	case "dueDate", "priority", "createdAt", "title":
	default:
		q.SortBy = "createdAt"
	}
	if q.SortOrder != "asc" {
		q.SortOrder = "desc"
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}
