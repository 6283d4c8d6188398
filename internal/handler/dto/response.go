package dto

import (
	"time"

	"github.com/mtlprog/taskpulse/internal/domain"
)

// ProgressNoteInfo is one progress entry in a task response.
type ProgressNoteInfo struct {
	Author    string    `json:"author"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// TaskResponse represents a full task object.
type TaskResponse struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Status            string             `json:"status"`
	Type              string             `json:"type"`
	Priority          string             `json:"priority"`
	Color             string             `json:"color,omitempty"`
	Company           string             `json:"company,omitempty"`
	Recurrence        string             `json:"recurrence"`
	RecurrenceEndDate *time.Time         `json:"recurrence_end_date,omitempty"`
	DueDate           *time.Time         `json:"due_date,omitempty"`
	StartTime         string             `json:"start_time,omitempty"`
	EndTime           string             `json:"end_time,omitempty"`
	CreatedBy         string             `json:"created_by"`
	AssignedTo        []string           `json:"assigned_to"`
	ProgressNotes     []ProgressNoteInfo `json:"progress_notes"`
	RemindersSent     map[string]bool    `json:"reminders_sent"`
	Reminders         []string           `json:"reminders"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Message string `json:"message"`
}

// ToTaskResponse converts a domain.Task to TaskResponse.
func ToTaskResponse(task *domain.Task) TaskResponse {
	notes := make([]ProgressNoteInfo, len(task.ProgressNotes))
	for i, note := range task.ProgressNotes {
		notes[i] = ProgressNoteInfo{
			Author:    note.Author,
			Note:      note.Note,
			Timestamp: note.Timestamp,
		}
	}

	assignedTo := task.AssignedTo
	if assignedTo == nil {
		assignedTo = []string{}
	}
	remindersSent := task.RemindersSent
	if remindersSent == nil {
		remindersSent = map[string]bool{}
	}
	reminders := task.Reminders
	if reminders == nil {
		reminders = []string{}
	}

	return TaskResponse{
		ID:                task.ID,
		Title:             task.Title,
		Description:       task.Description,
		Status:            string(task.Status),
		Type:              string(task.Type),
		Priority:          string(task.Priority),
		Color:             task.Color,
		Company:           task.Company,
		Recurrence:        string(task.Recurrence),
		RecurrenceEndDate: task.RecurrenceEndDate,
		DueDate:           task.DueDate,
		StartTime:         task.StartTime,
		EndTime:           task.EndTime,
		CreatedBy:         task.CreatedBy,
		AssignedTo:        assignedTo,
		ProgressNotes:     notes,
		RemindersSent:     remindersSent,
		Reminders:         reminders,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}
}

// ToTasksListResponse converts a task slice to TasksListResponse.
func ToTasksListResponse(tasks []*domain.Task) TasksListResponse {
	out := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = ToTaskResponse(task)
	}
	return TasksListResponse{Tasks: out, Total: len(out)}
}
