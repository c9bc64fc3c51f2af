package repo

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	dom "github.com/julienby/taskflow/internal/domain"
)

// TaskRepo is the persistence boundary for tasks. Missing rows surface as
// sql.ErrNoRows; the service layer decides what "not found" means.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, id int64) (dom.Task, error)
	Update(ctx context.Context, id int64, patch dom.TaskPatch) (dom.Task, error)
	Toggle(ctx context.Context, id int64) (dom.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Reorder(ctx context.Context, orderedIDs []int64) error
	List(ctx context.Context, f dom.TaskFilter) ([]dom.Task, error)
	Count(ctx context.Context, f dom.TaskFilter) (int, error)
}

type SQLiteTaskRepo struct {
	db *sqlx.DB
}

func NewSQLiteTaskRepo(db *sqlx.DB) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	// sort_order is max+1 computed inside the insert so new tasks always
	// sort last, regardless of any active filter.
	query := `
		INSERT INTO tasks (title, description, category, priority, due_date, sort_order)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM tasks))`
	res, err := r.db.ExecContext(ctx, query,
		t.Title, t.Description, string(t.Category), string(t.Priority), nullableDate(t.DueDate))
	if err != nil {
		return dom.Task{}, wrapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return dom.Task{}, wrapErr(err)
	}
	return r.GetByID(ctx, id)
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	query, args, err := squirrel.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return dom.Task{}, err
	}
	var row taskRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return dom.Task{}, err
		}
		return dom.Task{}, wrapErr(err)
	}
	return row.toDomain()
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, id int64, patch dom.TaskPatch) (dom.Task, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	b := squirrel.Update("tasks").Where(squirrel.Eq{"id": id})
	if patch.Title != nil {
		b = b.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		b = b.Set("description", *patch.Description)
	}
	if patch.Category != nil {
		b = b.Set("category", string(*patch.Category))
	}
	if patch.Priority != nil {
		b = b.Set("priority", string(*patch.Priority))
	}
	if patch.Status != nil {
		b = b.Set("status", string(*patch.Status))
	}
	if patch.DueDate != nil {
		// Empty string clears the date; it is never stored literally.
		if *patch.DueDate == "" {
			b = b.Set("due_date", nil)
		} else {
			b = b.Set("due_date", *patch.DueDate)
		}
	}

	query, args, err := b.ToSql()
	if err != nil {
		return dom.Task{}, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return dom.Task{}, wrapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dom.Task{}, wrapErr(err)
	}
	if n == 0 {
		return dom.Task{}, sql.ErrNoRows
	}
	// updated_at is refreshed by the table trigger; re-read the fresh row.
	return r.GetByID(ctx, id)
}

func (r *SQLiteTaskRepo) Toggle(ctx context.Context, id int64) (dom.Task, error) {
	query := `
		UPDATE tasks
		SET status = CASE WHEN status = 'pending' THEN 'completed' ELSE 'pending' END
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return dom.Task{}, wrapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dom.Task{}, wrapErr(err)
	}
	if n == 0 {
		return dom.Task{}, sql.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, wrapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrapErr(err)
	}
	return n > 0, nil
}

// Reorder assigns sort_order = position for each id, in one transaction.
// Ids absent from the list keep their existing sort_order.
func (r *SQLiteTaskRepo) Reorder(ctx context.Context, orderedIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapErr(err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE tasks SET sort_order = ? WHERE id = ?`)
	if err != nil {
		return wrapErr(err)
	}
	defer stmt.Close()

	for i, id := range orderedIDs {
		if _, err := stmt.ExecContext(ctx, i, id); err != nil {
			return wrapErr(err)
		}
	}
	return wrapErr(tx.Commit())
}

func (r *SQLiteTaskRepo) List(ctx context.Context, f dom.TaskFilter) ([]dom.Task, error) {
	b := squirrel.Select(taskColumns...).
		From("tasks").
		OrderBy("sort_order ASC", "created_at DESC")
	if conj := filterConj(f); len(conj) > 0 {
		b = b.Where(conj)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return rowsToDomain(rows)
}

func (r *SQLiteTaskRepo) Count(ctx context.Context, f dom.TaskFilter) (int, error) {
	b := squirrel.Select("COUNT(*)").From("tasks")
	if conj := filterConj(f); len(conj) > 0 {
		b = b.Where(conj)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// filterConj builds the AND-combined predicate set shared by List and
// Count, so both always evaluate the same filters.
func filterConj(f dom.TaskFilter) squirrel.And {
	conj := squirrel.And{}
	if f.Search != nil {
		conj = append(conj, squirrel.Like{"title": "%" + *f.Search + "%"})
	}
	if f.Category != nil {
		conj = append(conj, squirrel.Eq{"category": string(*f.Category)})
	}
	if f.Priority != nil {
		conj = append(conj, squirrel.Eq{"priority": string(*f.Priority)})
	}
	if f.Status != nil {
		conj = append(conj, squirrel.Eq{"status": string(*f.Status)})
	}
	return conj
}

func nullableDate(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
