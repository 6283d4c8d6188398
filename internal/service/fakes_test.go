package service

import (
	"context"
	"fmt"

	"github.com/mtlprog/taskpulse/internal/domain"
	"github.com/mtlprog/taskpulse/internal/repository"
)

// fakeStore is an in-memory TaskStore for unit tests.
type fakeStore struct {
	tasks map[string]*domain.Task

	updateErr  error
	markedSent []string // "taskID/label" in latch order
	overdueIDs []string
}

func newFakeStore(tasks ...*domain.Task) *fakeStore {
	s := &fakeStore{tasks: make(map[string]*domain.Task)}
	for _, task := range tasks {
		s.tasks[task.ID] = task
	}
	return s
}

func (s *fakeStore) GetByID(_ context.Context, taskID string) (*domain.Task, error) {
	task, ok := s.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *fakeStore) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task.ID == "" {
		task.ID = fmt.Sprintf("task-%d", len(s.tasks)+1)
	}
	task.Version = 1
	s.tasks[task.ID] = task
	return task, nil
}

func (s *fakeStore) Update(_ context.Context, task *domain.Task) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	stored, ok := s.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if stored.Version != task.Version {
		return domain.ErrTaskConflict
	}
	task.Version++
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *fakeStore) Delete(_ context.Context, taskID string) error {
	if _, ok := s.tasks[taskID]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

func (s *fakeStore) List(_ context.Context, _ repository.TaskFilter) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *fakeStore) MarkOverdue(_ context.Context, taskID string) (bool, error) {
	task, ok := s.tasks[taskID]
	if !ok || !task.Status.ReminderEligible() {
		return false, nil
	}
	task.Status = domain.TaskStatusOverdue
	s.overdueIDs = append(s.overdueIDs, taskID)
	return true, nil
}

func (s *fakeStore) FindReminderCandidates(_ context.Context, label string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for _, task := range s.tasks {
		if task.DueDate == nil || !task.Status.ReminderEligible() || task.ReminderSent(label) {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *fakeStore) MarkReminderSent(_ context.Context, taskID, label string) error {
	task, ok := s.tasks[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if task.RemindersSent == nil {
		task.RemindersSent = make(map[string]bool)
	}
	task.RemindersSent[label] = true
	s.markedSent = append(s.markedSent, taskID+"/"+label)
	return nil
}

// fakeDirectory resolves user ids from a fixed map.
type fakeDirectory struct {
	users map[string]*domain.User
}

func newFakeDirectory(users ...*domain.User) *fakeDirectory {
	d := &fakeDirectory{users: make(map[string]*domain.User)}
	for _, user := range users {
		d.users[user.ID] = user
	}
	return d
}

func (d *fakeDirectory) GetByIDs(_ context.Context, userIDs []string) ([]*domain.User, error) {
	var found []*domain.User
	for _, id := range userIDs {
		if user, ok := d.users[id]; ok {
			found = append(found, user)
		}
	}
	return found, nil
}

// sentMail records one Mailer.Send call.
type sentMail struct {
	To      []string
	Subject string
	Body    string
}

// fakeMailer records sent mail and optionally fails every send.
type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

func (m *fakeMailer) Send(_ context.Context, to []string, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}
