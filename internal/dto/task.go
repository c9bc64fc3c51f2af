package dto

import (
	"strings"

	"github.com/gin-gonic/gin"

	dom "github.com/julienby/taskflow/internal/domain"
)

// CreateTaskRequest binds the add-task form. Title validation happens in
// the service so an empty title comes back as a 422, not a generic 400.
type CreateTaskRequest struct {
	Title    string `form:"title"`
	Category string `form:"category"`
	Priority string `form:"priority"`
	DueDate  string `form:"due_date"`
}

// ReorderRequest binds the drag-and-drop payload: ordered ids, first is
// the new top of the list.
type ReorderRequest struct {
	Order []int64 `form:"order[]"`
}

// ParseFilters reads the filter set from query params. The UI's magic
// values ("all", empty string) stop here, and unknown category, priority
// or status values are dropped; the domain filter only carries valid
// fields that actually restrict the result.
func ParseFilters(c *gin.Context) dom.TaskFilter {
	var f dom.TaskFilter

	if s := strings.TrimSpace(c.Query("search")); s != "" {
		f.Search = &s
	}
	if raw := queryWithFallback(c, "category", "filter_category"); raw != "" {
		if cat := dom.Category(raw); cat.Valid() {
			f.Category = &cat
		}
	}
	if raw := queryWithFallback(c, "priority", "filter_priority"); raw != "" {
		if pri := dom.Priority(raw); pri.Valid() {
			f.Priority = &pri
		}
	}
	if raw := queryWithFallback(c, "status", "filter_status"); raw != "" && raw != "all" {
		if st := dom.Status(raw); st.Valid() {
			f.Status = &st
		}
	}
	return f
}

// queryWithFallback reads key, falling back to the filter_-prefixed form
// the filter bar submits.
func queryWithFallback(c *gin.Context, key, fallback string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return c.Query(fallback)
}
