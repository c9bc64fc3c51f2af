package domain

import "time"

// Category groups tasks for filtering.
type Category string

const (
	CategoryWork      Category = "work"
	CategoryPersonal  Category = "personal"
	CategoryShopping  Category = "shopping"
	CategoryHealth    Category = "health"
	CategoryEducation Category = "education"
	CategoryFinance   Category = "finance"
)

// Categories lists all allowed categories in display order.
func Categories() []Category {
	return []Category{
		CategoryWork, CategoryPersonal, CategoryShopping,
		CategoryHealth, CategoryEducation, CategoryFinance,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryShopping,
		CategoryHealth, CategoryEducation, CategoryFinance:
		return true
	}
	return false
}

// Priority is the task urgency level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Opposite returns the other status, for pending/completed toggling.
func (s Status) Opposite() Status {
	if s == StatusPending {
		return StatusCompleted
	}
	return StatusPending
}

// DateLayout is the wire and storage format for due dates.
const DateLayout = "2006-01-02"

// Task is the single entity of the data model: one to-do row.
// It does not depend on Gin, SQLite or Redis.
type Task struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	// DueDate is an ISO date (YYYY-MM-DD); nil means no due date.
	DueDate   *string   `json:"due_date"`
	SortOrder int64     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Completed reports whether the task is done.
func (t Task) Completed() bool { return t.Status == StatusCompleted }

// Overdue reports whether the task's due date lies before today.
// Completed tasks are never overdue.
func (t Task) Overdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return *t.DueDate < now.Format(DateLayout)
}

// TaskFilter is the filter set for List and Count. Nil fields mean
// "no restriction"; present fields are AND-combined. The HTTP layer is
// responsible for mapping magic values like "all" to an unset field.
type TaskFilter struct {
	Search   *string
	Category *Category
	Priority *Priority
	Status   *Status
}

// Empty reports whether no filter is active.
func (f TaskFilter) Empty() bool {
	return f.Search == nil && f.Category == nil && f.Priority == nil && f.Status == nil
}

// TaskPatch is a partial update. Nil fields are left untouched.
// An empty DueDate string clears the due date.
type TaskPatch struct {
	Title       *string
	Description *string
	Category    *Category
	Priority    *Priority
	Status      *Status
	DueDate     *string
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.Status == nil && p.DueDate == nil
}
