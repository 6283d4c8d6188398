package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mtlprog/taskpulse/internal/domain"
)

// ReminderWindow is a fixed lead time before a task's event instant at
// which a reminder fires.
type ReminderWindow struct {
	Label   string
	Minutes int
}

// ReminderWindows is the ordered, global set of lead-time windows. Per-task
// reminder preferences are stored but deliberately not consulted here.
var ReminderWindows = []ReminderWindow{
	{Label: "1d", Minutes: 1440},
	{Label: "1h", Minutes: 60},
	{Label: "30m", Minutes: 30},
	{Label: "15m", Minutes: 15},
	{Label: "5m", Minutes: 5},
}

// TickInterval is the reminder poll cadence. The matching window below is
// sized to it, so changing one means changing the other.
const TickInterval = time.Minute

// ReminderService matches upcoming task deadlines against the lead-time
// windows and fires each (task, window) reminder at most once.
type ReminderService struct {
	store  TaskStore
	users  UserDirectory
	mailer Mailer
	now    func() time.Time

	mu sync.Mutex // serializes ticks; a tick must not overlap a running one
}

// NewReminderService creates a new ReminderService.
func NewReminderService(store TaskStore, users UserDirectory, mailer Mailer) *ReminderService {
	return &ReminderService{
		store:  store,
		users:  users,
		mailer: mailer,
		now:    time.Now,
	}
}

// RunTick executes one reminder pass. Safe to call from a timer: overlapping
// calls are serialized. Returns the number of reminders sent and an error
// aggregating per-window query failures; individual send failures are only
// logged so the affected reminder is retried while its window lasts.
func (s *ReminderService) RunTick(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tick(ctx, s.now())
}

func (s *ReminderService) tick(ctx context.Context, now time.Time) (int, error) {
	sent := 0
	var errs []error

	for _, window := range ReminderWindows {
		target := now.Add(time.Duration(window.Minutes) * time.Minute)

		tasks, err := s.store.FindReminderCandidates(ctx, window.Label)
		if err != nil {
			slog.Error("failed to query reminder candidates",
				"window", window.Label,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("window %s: %w", window.Label, err))
			continue
		}

		for _, task := range tasks {
			if s.remind(ctx, task, window, target) {
				sent++
			}
		}
	}

	if len(errs) > 0 {
		return sent, fmt.Errorf("reminder tick had %d window failures: %v", len(errs), errs)
	}
	return sent, nil
}

// remind sends the reminder for one task if its event instant crosses the
// window boundary during this tick, then latches the sent flag before the
// next task is considered. Returns true if a reminder went out.
func (s *ReminderService) remind(ctx context.Context, task *domain.Task, window ReminderWindow, target time.Time) bool {
	event, ok := task.EventInstant()
	if !ok {
		return false
	}

	// Half-open interval [target - tick, target): catches exactly the tasks
	// whose reminder boundary crosses during this tick.
	if event.Before(target.Add(-TickInterval)) || !event.Before(target) {
		return false
	}

	if len(task.AssignedTo) == 0 {
		return false
	}

	users, err := s.users.GetByIDs(ctx, task.AssignedTo)
	if err != nil {
		slog.Error("failed to resolve reminder recipients",
			"task_id", task.ID,
			"window", window.Label,
			"error", err,
		)
		return false
	}

	emails := make([]string, 0, len(users))
	for _, user := range users {
		emails = append(emails, user.Email)
	}
	if len(emails) == 0 {
		return false
	}

	subject := fmt.Sprintf("Task Reminder: %s", task.Title)
	body := fmt.Sprintf(
		"Reminder: Task %q is due at %s\nDescription: %s",
		task.Title, event.UTC().Format(time.RFC1123), task.Description,
	)

	if err := s.mailer.Send(ctx, emails, subject, body); err != nil {
		// Latch stays false so the reminder is retried on the next tick,
		// as long as the event is still inside the window.
		slog.Error("failed to send reminder",
			"task_id", task.ID,
			"window", window.Label,
			"error", err,
		)
		return false
	}

	if err := s.store.MarkReminderSent(ctx, task.ID, window.Label); err != nil {
		slog.Error("failed to latch reminder flag",
			"task_id", task.ID,
			"window", window.Label,
			"error", err,
		)
		return true
	}

	slog.Info("reminder sent",
		"task_id", task.ID,
		"window", window.Label,
		"recipients", len(emails),
	)
	return true
}
