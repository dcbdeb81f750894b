package reminders

import (
	"fmt"
	"strings"
)

var priorityEmoji = map[string]string{
	"low":    "🟢",
	"medium": "🟡",
	"high":   "🟠",
	"urgent": "🔴",
}

func priorityBadge(priority string) string {
	if emoji, ok := priorityEmoji[priority]; ok {
		return emoji
	}
	return "⚪"
}

// FormatMessage composes the human-readable WhatsApp text for a reminder
// or an overdue alert.
func FormatMessage(rem Reminder) string {
	task := rem.Task
	var b strings.Builder

	if rem.Overdue {
		b.WriteString("⚠️ *Task Overdue!*\n\n")
	} else {
		b.WriteString("⏰ *Task Reminder*\n\n")
	}

	b.WriteString(fmt.Sprintf("📌 *%s*\n", strings.TrimSpace(task.Title)))

	if task.DueDate != nil {
		b.WriteString(fmt.Sprintf("📅 Due: %s\n", task.DueDate.Format("Mon, 02 Jan 2006 15:04")))
	}

	b.WriteString(fmt.Sprintf("%s Priority: %s\n", priorityBadge(task.Priority), task.Priority))
	b.WriteString(fmt.Sprintf("🔄 Status: %s\n", task.Status))

	if desc := strings.TrimSpace(task.Description); desc != "" {
		b.WriteString(fmt.Sprintf("📝 %s\n", desc))
	}

	if task.EstimatedTime != nil {
		b.WriteString(fmt.Sprintf("⏱ Estimated: %d %s\n", task.EstimatedTime.Value, task.EstimatedTime.Unit))
	}

	if len(task.Tags) > 0 {
		b.WriteString(fmt.Sprintf("🏷 Tags: %s\n", strings.Join(task.Tags, ", ")))
	}

	if rem.Overdue {
		b.WriteString("\nPlease attend to this task as soon as possible.")
	}

	return strings.TrimSpace(b.String())
}
