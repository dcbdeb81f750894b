package todos

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/birimengo/mytrade-api/internal/pkg/pagination"
	"github.com/birimengo/mytrade-api/internal/pkg/response"
	apperrors "github.com/birimengo/mytrade-api/pkg/errors"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func ownerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		response.Unauthorized(c, "Invalid user identity")
		return primitive.NilObjectID, false
	}
	return id, true
}

// Create godoc
// @Summary Create a new task
// @Tags todo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task creation data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /todo [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if errs := ValidateCreate(&req); len(errs) > 0 {
		response.ValidationFailed(c, errs)
		return
	}

	task := &Task{
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Tags:              req.Tags,
		Priority:          req.Priority,
		DueDate:           req.DueDate,
		ReminderDate:      req.ReminderDate,
		EstimatedTime:     req.EstimatedTime,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
	}

	if req.SaleID != nil {
		saleID, err := primitive.ObjectIDFromHex(*req.SaleID)
		if err != nil {
			response.BadRequest(c, "Invalid sale ID")
			return
		}
		task.SaleID = &saleID
	}

	if err := h.repo.Create(c.Request.Context(), task); err != nil {
		response.DatabaseError(c, "Failed to create task")
		return
	}

	task.Decorate(time.Now())
	response.Created(c, task)
}

// List godoc
// @Summary List tasks
// @Description List the authenticated user's tasks with filtering, search, sort and pagination
// @Tags todo
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param category query string false "Filter by category"
// @Param search query string false "Search in title and description"
// @Param sortBy query string false "Sort field (dueDate, priority, createdAt, title)"
// @Param sortOrder query string false "asc or desc"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Router /todo [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	page, limit := pagination.FromQuery(c.Query("page"), c.Query("limit"))

	q := ListQuery{
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      page,
		Limit:     limit,
	}
	NormalizeListQuery(&q)

	tasks, total, err := h.repo.List(c.Request.Context(), userID, q)
	if err != nil {
		response.DatabaseError(c, "Failed to list tasks")
		return
	}

	now := time.Now()
	for i := range tasks {
		tasks[i].Decorate(now)
	}

	response.Paginated(c, tasks, total, q.Limit, q.Page)
}

// Stats godoc
// @Summary Task summary statistics
// @Tags todo
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /todo/stats/summary [get]
func (h *Handler) Stats(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	stats, err := h.repo.Stats(c.Request.Context(), userID)
	if err != nil {
		response.DatabaseError(c, "Failed to compute stats")
		return
	}

	response.Success(c, stats)
}

// Get godoc
// @Summary Get a task by ID
// @Tags todo
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /todo/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	task, err := h.repo.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrBadRequest) {
			response.BadRequest(c, "Invalid task ID")
			return
		}
		response.DatabaseError(c, "Failed to load task")
		return
	}
	if task == nil {
		response.NotFound(c, "Task not found")
		return
	}

	task.Decorate(time.Now())
	response.Success(c, task)
}

// Update godoc
// @Summary Update a task
// @Description Partial update; transitioning into completed stamps completedAt, leaving completed clears it
// @Tags todo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequest true "Task update data"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /todo/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if errs := ValidateUpdate(&req); len(errs) > 0 {
		response.ValidationFailed(c, errs)
		return
	}

	update := bson.M{}
	if req.Title != nil {
		update["title"] = *req.Title
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Category != nil {
		update["category"] = *req.Category
	}
	if req.Tags != nil {
		update["tags"] = req.Tags
	}
	if req.Priority != nil {
		update["priority"] = *req.Priority
	}
	if req.Status != nil {
		update["status"] = *req.Status
		if *req.Status == StatusCompleted {
			update["completedAt"] = time.Now()
		} else {
			update["completedAt"] = nil
		}
	}
	if req.DueDate != nil {
		update["dueDate"] = req.DueDate
	}
	if req.ReminderDate != nil {
		update["reminderDate"] = req.ReminderDate
		// An edited reminder date is a fresh reminder
		update["reminderSent"] = false
		update["whatsappReminderSent"] = false
	}
	if req.EstimatedTime != nil {
		update["estimatedTime"] = req.EstimatedTime
	}
	if req.IsRecurring != nil {
		update["isRecurring"] = *req.IsRecurring
	}
	if req.RecurrencePattern != nil {
		update["recurrencePattern"] = *req.RecurrencePattern
	}

	if len(update) == 0 {
		response.BadRequest(c, "No fields to update")
		return
	}

	if err := h.repo.Update(c.Request.Context(), c.Param("id"), userID, update); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			response.NotFound(c, "Task not found")
		case errors.Is(err, apperrors.ErrBadRequest):
			response.BadRequest(c, "Invalid task ID")
		default:
			response.DatabaseError(c, "Failed to update task")
		}
		return
	}

	task, err := h.repo.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil || task == nil {
		response.InternalServerError(c, "Failed to load updated task")
		return
	}

	task.Decorate(time.Now())
	response.Success(c, task)
}

// Delete godoc
// @Summary Delete a task
// @Tags todo
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /todo/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			response.NotFound(c, "Task not found")
		case errors.Is(err, apperrors.ErrBadRequest):
			response.BadRequest(c, "Invalid task ID")
		default:
			response.DatabaseError(c, "Failed to delete task")
		}
		return
	}

	response.Success(c, nil, "Task deleted")
}

// Complete godoc
// @Summary Mark a task completed
// @Tags todo
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /todo/{id}/complete [post]
func (h *Handler) Complete(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	task, err := h.repo.Complete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			response.NotFound(c, "Task not found")
		case errors.Is(err, apperrors.ErrDuplicate):
			response.Conflict(c, "Task is already completed")
		case errors.Is(err, apperrors.ErrBadRequest):
			response.BadRequest(c, "Invalid task ID")
		default:
			response.DatabaseError(c, "Failed to complete task")
		}
		return
	}

	task.Decorate(time.Now())
	response.Success(c, task, "Task completed")
}

// Reopen godoc
// @Summary Reopen a completed task
// @Tags todo
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /todo/{id}/reopen [post]
func (h *Handler) Reopen(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	task, err := h.repo.Reopen(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			response.NotFound(c, "Task not found")
		case errors.Is(err, apperrors.ErrDuplicate):
			response.Conflict(c, "Task is not completed")
		case errors.Is(err, apperrors.ErrBadRequest):
			response.BadRequest(c, "Invalid task ID")
		default:
			response.DatabaseError(c, "Failed to reopen task")
		}
		return
	}

	task.Decorate(time.Now())
	response.Success(c, task, "Task reopened")
}

// Overdue godoc
// @Summary List overdue tasks
// @Tags todo
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /todo/overdue [get]
func (h *Handler) Overdue(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	tasks, err := h.repo.ListOverdue(c.Request.Context(), userID)
	if err != nil {
		response.DatabaseError(c, "Failed to list overdue tasks")
		return
	}

	now := time.Now()
	for i := range tasks {
		tasks[i].Decorate(now)
	}
	response.Success(c, tasks)
}

// Upcoming godoc
// @Summary List tasks due in the next 7 days
// @Tags todo
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /todo/upcoming [get]
func (h *Handler) Upcoming(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	tasks, err := h.repo.ListUpcoming(c.Request.Context(), userID, 7)
	if err != nil {
		response.DatabaseError(c, "Failed to list upcoming tasks")
		return
	}

	now := time.Now()
	for i := range tasks {
		tasks[i].Decorate(now)
	}
	response.Success(c, tasks)
}
