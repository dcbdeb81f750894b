package reminders

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/birimengo/mytrade-api/internal/features/todos"
)

// How long an overdue task stays quiet after an alert.
const overdueAlertGap = 24 * time.Hour

// Store is the slice of the task repository the scan needs. Satisfied by
// todos.Repository.
type Store interface {
	FindDue(ctx context.Context, windowMinutes int) ([]todos.TaskWithOwner, error)
	FindOverdue(ctx context.Context) ([]todos.TaskWithOwner, error)
	MarkReminderSent(ctx context.Context, id primitive.ObjectID) (bool, error)
	MarkWhatsAppReminderSent(ctx context.Context, id primitive.ObjectID) error
	MarkOverdueAlerted(ctx context.Context, id primitive.ObjectID) error
	FindRecurringDue(ctx context.Context) ([]todos.Task, error)
	SpawnSuccessor(ctx context.Context, task *todos.Task) (*todos.Task, error)
}

// Service runs the reminder scan. Each pass is stateless: it queries the
// store, dispatches per task in sequence, and writes outcomes back onto
// the tasks. Per-task failures are counted, never raised; only a failure
// to list tasks propagates.
type Service struct {
	store         Store
	dispatcher    *Dispatcher
	windowMinutes int
}

func NewService(store Store, dispatcher *Dispatcher, windowMinutes int) *Service {
	if windowMinutes <= 0 {
		windowMinutes = 5
	}
	return &Service{
		store:         store,
		dispatcher:    dispatcher,
		windowMinutes: windowMinutes,
	}
}

// ProcessUpcoming sends reminders for tasks whose reminder date falls in
// the scan window. On dispatch success the task's reminder flags flip; on
// failure they stay untouched so the next pass retries.
func (s *Service) ProcessUpcoming(ctx context.Context) (*Report, error) {
	due, err := s.store.FindDue(ctx, s.windowMinutes)
	if err != nil {
		return nil, err
	}

	report := &Report{Total: len(due)}
	for _, item := range due {
		result := s.dispatcher.Dispatch(ctx, Reminder{Task: item.Task, Owner: item.Owner})
		taskResult := TaskResult{
			TaskID:      item.ID,
			Title:       item.Title,
			Success:     result.Success,
			ServiceUsed: result.ServiceUsed,
			Error:       result.Error,
		}

		if result.Success {
			if _, err := s.store.MarkReminderSent(ctx, item.ID); err != nil {
				log.Printf("reminders: mark sent %s: %v", item.ID.Hex(), err)
			}
			if result.ServiceUsed == ServiceWhatsApp {
				if err := s.store.MarkWhatsAppReminderSent(ctx, item.ID); err != nil {
					log.Printf("reminders: mark whatsapp sent %s: %v", item.ID.Hex(), err)
				}
			}
			report.Sent++
		} else {
			report.Failed++
		}

		report.Results = append(report.Results, taskResult)
	}

	return report, nil
}

// ProcessOverdue alerts on open tasks past their due date. A task alerted
// within the last 24 hours is skipped; an alert only moves
// lastReminderSent, never reminderSent, since overdue alerts are a
// separate channel from the scheduled reminder.
func (s *Service) ProcessOverdue(ctx context.Context) (*Report, error) {
	overdue, err := s.store.FindOverdue(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	report := &Report{Total: len(overdue)}
	for _, item := range overdue {
		if item.LastReminderSent != nil && now.Sub(*item.LastReminderSent) < overdueAlertGap {
			report.Skipped++
			continue
		}

		result := s.dispatcher.Dispatch(ctx, Reminder{Task: item.Task, Owner: item.Owner, Overdue: true})
		taskResult := TaskResult{
			TaskID:      item.ID,
			Title:       item.Title,
			Success:     result.Success,
			ServiceUsed: result.ServiceUsed,
			Error:       result.Error,
		}

		if result.Success {
			if err := s.store.MarkOverdueAlerted(ctx, item.ID); err != nil {
				log.Printf("reminders: mark alerted %s: %v", item.ID.Hex(), err)
			}
			report.Sent++
		} else {
			report.Failed++
		}

		report.Results = append(report.Results, taskResult)
	}

	return report, nil
}

// ProcessRecurrences spawns the successor for each recurring task whose
// due date has passed.
func (s *Service) ProcessRecurrences(ctx context.Context) (*RecurrenceReport, error) {
	tasks, err := s.store.FindRecurringDue(ctx)
	if err != nil {
		return nil, err
	}

	report := &RecurrenceReport{Total: len(tasks)}
	for i := range tasks {
		if _, err := s.store.SpawnSuccessor(ctx, &tasks[i]); err != nil {
			log.Printf("reminders: spawn successor for %s: %v", tasks[i].ID.Hex(), err)
			report.Failed++
			continue
		}
		report.Spawned++
	}

	return report, nil
}

// RunScan executes all three passes. Meant to be the cron job body.
func (s *Service) RunScan(ctx context.Context) {
	if report, err := s.ProcessUpcoming(ctx); err != nil {
		log.Printf("reminders: upcoming pass: %v", err)
	} else if report.Total > 0 {
		log.Printf("reminders: upcoming pass sent=%d failed=%d total=%d", report.Sent, report.Failed, report.Total)
	}

	if report, err := s.ProcessOverdue(ctx); err != nil {
		log.Printf("reminders: overdue pass: %v", err)
	} else if report.Total > 0 {
		log.Printf("reminders: overdue pass alerted=%d failed=%d skipped=%d total=%d",
			report.Sent, report.Failed, report.Skipped, report.Total)
	}

	if report, err := s.ProcessRecurrences(ctx); err != nil {
		log.Printf("reminders: recurrence pass: %v", err)
	} else if report.Total > 0 {
		log.Printf("reminders: recurrence pass spawned=%d failed=%d total=%d",
			report.Spawned, report.Failed, report.Total)
	}
}
