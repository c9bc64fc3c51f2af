package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/julienby/taskflow/internal/dto"
	"github.com/julienby/taskflow/internal/repo"
	"github.com/julienby/taskflow/internal/service"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Index renders the full page with the current unfiltered task list.
func (h *TaskHandler) Index(c *gin.Context) {
	filters := dto.ParseFilters(c)
	list, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		h.renderError(c, err)
		return
	}
	count, err := h.svc.Count(c.Request.Context(), filters)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "index", gin.H{"Tasks": list, "Count": count})
}

// List returns the filtered task rows plus an out-of-band count badge.
// Search and list share this endpoint; the filter set decides.
func (h *TaskHandler) List(c *gin.Context) {
	filters := dto.ParseFilters(c)
	list, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		h.renderError(c, err)
		return
	}
	count, err := h.svc.Count(c.Request.Context(), filters)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "task_rows", gin.H{"Tasks": list, "Count": count})
}

// EditForm returns the inline edit form for one row.
func (h *TaskHandler) EditForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "edit_form", gin.H{"Task": t})
}

// Create adds a task and returns the new row, a refreshed count under the
// caller's current filters, and an out-of-band input reset.
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "error_msg", gin.H{"Message": err.Error()})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), req.Title, req.Category, req.Priority, req.DueDate)
	if err != nil {
		h.renderError(c, err)
		return
	}

	count, err := h.svc.Count(c.Request.Context(), dto.ParseFilters(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusCreated, "create_ok", gin.H{"Task": t, "Count": count})
}

// Update applies a partial edit and returns the refreshed row.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	// Field presence matters: only keys in the form are touched.
	var in service.UpdateInput
	if v, present := c.GetPostForm("title"); present {
		in.Title = &v
	}
	if v, present := c.GetPostForm("description"); present {
		in.Description = &v
	}
	if v, present := c.GetPostForm("category"); present {
		in.Category = &v
	}
	if v, present := c.GetPostForm("priority"); present {
		in.Priority = &v
	}
	if v, present := c.GetPostForm("status"); present {
		in.Status = &v
	}
	if v, present := c.GetPostForm("due_date"); present {
		in.DueDate = &v
	}

	t, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "task_row", t)
}

// Toggle flips pending/completed and returns the row plus a fresh count.
func (h *TaskHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Toggle(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	count, err := h.svc.Count(c.Request.Context(), dto.ParseFilters(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "toggle_ok", gin.H{"Task": t, "Count": count})
}

// Reorder persists the dragged order. Responds 204; the client already
// shows the new order.
func (h *TaskHandler) Reorder(c *gin.Context) {
	var req dto.ReorderRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "error_msg", gin.H{"Message": err.Error()})
		return
	}
	if err := h.svc.Reorder(c.Request.Context(), req.Order); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete removes the row and returns the refreshed count badge. Deleting
// an id that is already gone still succeeds.
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}
	count, err := h.svc.Count(c.Request.Context(), dto.ParseFilters(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "task_count", gin.H{"Count": count})
}

// renderError maps service errors to fragment responses:
// validation -> 422, not found -> 404, busy -> 503, anything else -> 500.
func (h *TaskHandler) renderError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		c.HTML(http.StatusUnprocessableEntity, "error_msg", gin.H{"Message": ve.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.HTML(http.StatusNotFound, "error_msg", gin.H{"Message": "Task not found"})
	case errors.Is(err, repo.ErrBusy):
		c.HTML(http.StatusServiceUnavailable, "error_msg", gin.H{"Message": "Storage is busy, try again"})
	default:
		c.HTML(http.StatusInternalServerError, "error_msg", gin.H{"Message": err.Error()})
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.HTML(http.StatusBadRequest, "error_msg", gin.H{"Message": "invalid id"})
		return 0, false
	}
	return id, true
}
