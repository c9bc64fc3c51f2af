package repo

import (
	"database/sql"
	"fmt"
	"time"

	dom "github.com/julienby/taskflow/internal/domain"
)

// timestampLayout is how SQLite's datetime('now','localtime') renders.
const timestampLayout = "2006-01-02 15:04:05"

var taskColumns = []string{
	"id", "title", "description", "category", "priority", "status",
	"due_date", "sort_order", "created_at", "updated_at",
}

// taskRow mirrors the tasks table; timestamps stay TEXT until mapped.
type taskRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Category    string         `db:"category"`
	Priority    string         `db:"priority"`
	Status      string         `db:"status"`
	DueDate     sql.NullString `db:"due_date"`
	SortOrder   int64          `db:"sort_order"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

func (r taskRow) toDomain() (dom.Task, error) {
	createdAt, err := time.ParseInLocation(timestampLayout, r.CreatedAt, time.Local)
	if err != nil {
		return dom.Task{}, fmt.Errorf("parse created_at %q: %w", r.CreatedAt, err)
	}
	updatedAt, err := time.ParseInLocation(timestampLayout, r.UpdatedAt, time.Local)
	if err != nil {
		return dom.Task{}, fmt.Errorf("parse updated_at %q: %w", r.UpdatedAt, err)
	}
	t := dom.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    dom.Category(r.Category),
		Priority:    dom.Priority(r.Priority),
		Status:      dom.Status(r.Status),
		SortOrder:   r.SortOrder,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if r.DueDate.Valid {
		due := r.DueDate.String
		t.DueDate = &due
	}
	return t, nil
}

func rowsToDomain(rows []taskRow) ([]dom.Task, error) {
	list := make([]dom.Task, 0, len(rows))
	for _, r := range rows {
		t, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, nil
}
