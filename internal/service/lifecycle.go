package service

import (
	"fmt"
	"time"

	"github.com/mtlprog/taskpulse/internal/domain"
)

// TaskPatch is a typed partial update. Nil fields are left untouched; the
// creator is deliberately not representable so ownership can never change.
type TaskPatch struct {
	Title             *string
	Description       *string
	Status            *domain.TaskStatus
	Type              *domain.TaskType
	Priority          *domain.TaskPriority
	Color             *string
	Company           *string
	Recurrence        *domain.Recurrence
	RecurrenceEndDate *time.Time
	DueDate           *time.Time
	StartTime         *string
	EndTime           *string
	AssignedTo        []string
	Reminders         []string
	ProgressNote      *string
}

// MutationResult is the outcome of a permitted mutation. The caller
// persists Task and, if NotifyAssignees is set, messages every assignee.
type MutationResult struct {
	Task            *domain.Task
	NotifyAssignees bool
	ChangedFields   []string
}

// ApplyPatch decides the outcome of a requested task mutation. Pure
// decision logic: it mutates the in-memory task and reports side effects,
// but performs no I/O.
//
// Owners may overwrite any field; any explicit status change triggers an
// assignee notification. Assignees of delegated and meeting tasks have a
// narrowed channel: status moves to accepted or in_progress apply directly,
// a requested done becomes under_review (completion needs the owner's
// sign-off), and progress notes append silently.
func ApplyPatch(task *domain.Task, actorID string, patch TaskPatch, now time.Time) (*MutationResult, error) {
	if task.IsCreatedBy(actorID) {
		return applyOwnerPatch(task, actorID, patch, now)
	}
	return applyAssigneePatch(task, actorID, patch, now)
}

func applyOwnerPatch(task *domain.Task, actorID string, patch TaskPatch, now time.Time) (*MutationResult, error) {
	result := &MutationResult{Task: task}

	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *patch.Status)
		}
		task.Status = *patch.Status
		result.NotifyAssignees = true
		result.ChangedFields = append(result.ChangedFields, "status")
	}

	if patch.Title != nil {
		task.Title = *patch.Title
		result.ChangedFields = append(result.ChangedFields, "title")
	}
	if patch.Description != nil {
		task.Description = *patch.Description
		result.ChangedFields = append(result.ChangedFields, "description")
	}
	if patch.Type != nil {
		if !patch.Type.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidType, *patch.Type)
		}
		task.Type = *patch.Type
		result.ChangedFields = append(result.ChangedFields, "type")
	}
	if patch.Priority != nil {
		if !patch.Priority.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, *patch.Priority)
		}
		task.Priority = *patch.Priority
		result.ChangedFields = append(result.ChangedFields, "priority")
	}
	if patch.Color != nil {
		task.Color = *patch.Color
		result.ChangedFields = append(result.ChangedFields, "color")
	}
	if patch.Company != nil {
		task.Company = *patch.Company
		result.ChangedFields = append(result.ChangedFields, "company")
	}
	if patch.Recurrence != nil {
		if !patch.Recurrence.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRecurrence, *patch.Recurrence)
		}
		task.Recurrence = *patch.Recurrence
		result.ChangedFields = append(result.ChangedFields, "recurrence")
	}
	if patch.RecurrenceEndDate != nil {
		task.RecurrenceEndDate = patch.RecurrenceEndDate
		result.ChangedFields = append(result.ChangedFields, "recurrenceEndDate")
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
		result.ChangedFields = append(result.ChangedFields, "dueDate")
	}
	if patch.StartTime != nil {
		task.StartTime = *patch.StartTime
		result.ChangedFields = append(result.ChangedFields, "startTime")
	}
	if patch.EndTime != nil {
		task.EndTime = *patch.EndTime
		result.ChangedFields = append(result.ChangedFields, "endTime")
	}
	if patch.AssignedTo != nil {
		task.AssignedTo = patch.AssignedTo
		result.ChangedFields = append(result.ChangedFields, "assignedTo")
	}
	if patch.Reminders != nil {
		task.Reminders = patch.Reminders
		result.ChangedFields = append(result.ChangedFields, "reminders")
	}
	if patch.ProgressNote != nil {
		appendProgressNote(task, actorID, *patch.ProgressNote, now)
		result.ChangedFields = append(result.ChangedFields, "progressNotes")
	}

	return result, nil
}

func applyAssigneePatch(task *domain.Task, actorID string, patch TaskPatch, now time.Time) (*MutationResult, error) {
	if !task.Type.Assignable() || !task.IsAssignedTo(actorID) {
		return nil, fmt.Errorf("%w: task %s", domain.ErrOnlyOwner, task.ID)
	}

	result := &MutationResult{Task: task}
	updated := false

	if patch.Status != nil {
		switch *patch.Status {
		case domain.TaskStatusDone:
			// Assignees cannot unilaterally close a task; it goes to review.
			task.Status = domain.TaskStatusUnderReview
		case domain.TaskStatusAccepted, domain.TaskStatusInProgress:
			task.Status = *patch.Status
		default:
			return nil, fmt.Errorf("%w: %q", domain.ErrAssigneeStatus, *patch.Status)
		}
		updated = true
		result.NotifyAssignees = true
		result.ChangedFields = append(result.ChangedFields, "status")
	}

	if patch.ProgressNote != nil {
		appendProgressNote(task, actorID, *patch.ProgressNote, now)
		result.ChangedFields = append(result.ChangedFields, "progressNotes")
		updated = true
	}

	if !updated {
		return nil, domain.ErrAssigneeEmptyUpdate
	}

	return result, nil
}

func appendProgressNote(task *domain.Task, authorID, note string, now time.Time) {
	task.ProgressNotes = append(task.ProgressNotes, domain.ProgressNote{
		Author:    authorID,
		Note:      note,
		Timestamp: now,
	})
}
