package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mtlprog/taskpulse/internal/domain"
	"github.com/mtlprog/taskpulse/internal/handler/dto"
	"github.com/mtlprog/taskpulse/internal/middleware"
	"github.com/mtlprog/taskpulse/internal/repository"
	"github.com/mtlprog/taskpulse/internal/service"
)

// handleCreateTask creates a new task.
// @Summary Create a new task
// @Description Creates a task owned by the caller. Delegated and meeting tasks with assignees trigger a creation email.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task creation request"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := dto.Validate(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	task, err := h.taskService.CreateTask(ctx, service.CreateTaskParams{
		Title:             req.Title,
		Description:       req.Description,
		Type:              domain.TaskType(req.Type),
		Priority:          domain.TaskPriority(req.Priority),
		Color:             req.Color,
		Company:           req.Company,
		Recurrence:        domain.Recurrence(req.Recurrence),
		RecurrenceEndDate: req.RecurrenceEndDate,
		DueDate:           req.DueDate,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		CreatorID:         user.ID,
		AssignedTo:        req.AssignedTo,
		Reminders:         req.Reminders,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(task))
}

// handleGetTask retrieves a single task.
// @Summary Get task details
// @Description Get a task the caller created or is assigned to
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(ctx, taskID, user.ID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleUpdateTask applies a partial update through the lifecycle engine.
// @Summary Update a task
// @Description Owner may change any field; assignees of delegated/meeting tasks may change status or append a progress note
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Task patch"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [patch]
func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := dto.Validate(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(ctx, taskID, user.ID, toTaskPatch(req))
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleDeleteTask deletes a task. Owner only.
// @Summary Delete a task
// @Description Delete a task. Only the owner may delete.
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.DeleteResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(ctx, taskID, user.ID); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.DeleteResponse{Message: "Task deleted"})
}

// handleListTasks returns the caller's tasks with optional filters. Stale
// tasks are corrected to overdue as part of the read.
// @Summary List tasks
// @Description List tasks the caller created or is assigned to
// @Tags tasks
// @Produce json
// @Param view query string false "View: outgoing (created by me) or incoming (assigned to me)"
// @Param type query string false "Filter by task type"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.TasksListResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	query := r.URL.Query()

	filter := repository.TaskFilter{}
	switch query.Get("view") {
	case "outgoing":
		filter.CreatorID = &user.ID
	case "incoming":
		filter.AssigneeID = &user.ID
	default:
		filter.InvolvedID = &user.ID
	}

	if typeParam := query.Get("type"); typeParam != "" {
		taskType := domain.TaskType(typeParam)
		if !taskType.IsValid() {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid task type")
			return
		}
		filter.Type = &taskType
	}

	if statusParam := query.Get("status"); statusParam != "" {
		status := domain.TaskStatus(statusParam)
		if !status.IsValid() {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid task status")
			return
		}
		filter.Status = &status
	}

	tasks, err := h.taskService.ListTasks(ctx, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tasks")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTasksListResponse(tasks))
}

// handleTasksByDate returns the caller's tasks due on a given calendar day.
// @Summary List tasks by date
// @Description List the caller's tasks due on the given day (YYYY-MM-DD)
// @Tags tasks
// @Produce json
// @Param date query string true "Calendar day, YYYY-MM-DD"
// @Success 200 {object} dto.TasksListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/by-date [get]
func (h *Handler) handleTasksByDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "date is required")
		return
	}

	day, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "date must be YYYY-MM-DD")
		return
	}

	tasks, err := h.taskService.ListTasksByDate(ctx, user.ID, day)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tasks")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTasksListResponse(tasks))
}

// toTaskPatch converts the update request body into the engine's typed patch.
func toTaskPatch(req dto.UpdateTaskRequest) service.TaskPatch {
	patch := service.TaskPatch{
		Title:             req.Title,
		Description:       req.Description,
		Color:             req.Color,
		Company:           req.Company,
		RecurrenceEndDate: req.RecurrenceEndDate,
		DueDate:           req.DueDate,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		AssignedTo:        req.AssignedTo,
		Reminders:         req.Reminders,
		ProgressNote:      req.ProgressNote,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.Type != nil {
		taskType := domain.TaskType(*req.Type)
		patch.Type = &taskType
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	if req.Recurrence != nil {
		recurrence := domain.Recurrence(*req.Recurrence)
		patch.Recurrence = &recurrence
	}
	return patch
}
