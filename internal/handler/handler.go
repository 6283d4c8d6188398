package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mtlprog/taskpulse/docs" // Import generated docs
	"github.com/mtlprog/taskpulse/internal/handler/dto"
	"github.com/mtlprog/taskpulse/internal/middleware"
	"github.com/mtlprog/taskpulse/internal/repository"
	"github.com/mtlprog/taskpulse/internal/service"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool           *pgxpool.Pool
	taskService    *service.TaskService
	taskRepo       *repository.TaskRepository
	userRepo       *repository.UserRepository
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies. The mailer is
// injected so tests can substitute a recording fake.
func New(pool *pgxpool.Pool, mailer service.Mailer) *Handler {
	taskRepo := repository.NewTaskRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	taskService := service.NewTaskService(taskRepo, userRepo, mailer)
	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	return &Handler{
		pool:           pool,
		taskService:    taskService,
		taskRepo:       taskRepo,
		userRepo:       userRepo,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// API v1 routes with authentication
	mux.Handle("GET /api/v1/tasks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListTasks)))
	mux.Handle("POST /api/v1/tasks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateTask)))
	mux.Handle("GET /api/v1/tasks/by-date", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleTasksByDate)))
	mux.Handle("GET /api/v1/tasks/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleGetTask)))
	mux.Handle("PATCH /api/v1/tasks/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleUpdateTask)))
	mux.Handle("DELETE /api/v1/tasks/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleDeleteTask)))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractTaskID extracts and validates the task ID path parameter.
// Returns (taskID, true) if valid, ("", false) if invalid (error already
// sent to the client).
func extractTaskID(w http.ResponseWriter, r *http.Request) (string, bool) {
	taskID := r.PathValue("id")
	if taskID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id is required")
		return "", false
	}

	if _, err := uuid.Parse(taskID); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id must be a valid UUID")
		return "", false
	}

	return taskID, true
}
