package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/julienby/taskflow/internal/cache"
	dom "github.com/julienby/taskflow/internal/domain"
	"github.com/julienby/taskflow/internal/repo"
)

var ErrNotFound = errors.New("not found")

// ValidationError rejects a request before anything is written. The CHECK
// constraints in the schema are a second line of defense, not the first.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

func (s *TaskService) Create(ctx context.Context, title, category, priority, dueDate string) (dom.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Task{}, validationErr("title", "must not be empty")
	}

	cat := dom.CategoryPersonal
	if category != "" {
		cat = dom.Category(category)
		if !cat.Valid() {
			return dom.Task{}, validationErr("category", fmt.Sprintf("unknown value %q", category))
		}
	}
	pri := dom.PriorityMedium
	if priority != "" {
		pri = dom.Priority(priority)
		if !pri.Valid() {
			return dom.Task{}, validationErr("priority", fmt.Sprintf("unknown value %q", priority))
		}
	}

	due, err := normalizeDueDate(dueDate)
	if err != nil {
		return dom.Task{}, err
	}

	t, err := s.repo.Create(ctx, dom.Task{
		Title:    title,
		Category: cat,
		Priority: pri,
		DueDate:  due,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TaskService) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// UpdateInput is the stringly-typed partial update as it arrives from the
// request layer. Nil fields are untouched; an empty DueDate clears the date.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *string
	Status      *string
	DueDate     *string
}

func (s *TaskService) Update(ctx context.Context, id int64, in UpdateInput) (dom.Task, error) {
	patch, err := buildPatch(in)
	if err != nil {
		return dom.Task{}, err
	}

	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TaskService) Toggle(ctx context.Context, id int64) (dom.Task, error) {
	t, err := s.repo.Toggle(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// Delete removes a task and reports whether a row actually went away.
// A missing id is not an error.
func (s *TaskService) Delete(ctx context.Context, id int64) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.invalidateCache(ctx)
	}
	return removed, nil
}

func (s *TaskService) Reorder(ctx context.Context, orderedIDs []int64) error {
	if len(orderedIDs) == 0 {
		return nil
	}
	if err := s.repo.Reorder(ctx, orderedIDs); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *TaskService) List(ctx context.Context, f dom.TaskFilter) ([]dom.Task, error) {
	if s.cache != nil {
		key := "list:" + cache.FilterKey(f)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, f); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, f)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, f, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.repo.List(ctx, f)
}

func (s *TaskService) Count(ctx context.Context, f dom.TaskFilter) (int, error) {
	if s.cache != nil {
		key := "count:" + cache.FilterKey(f)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if n, ok, err := s.cache.GetCount(ctx, f); err == nil && ok {
				return n, nil
			}
			n, err := s.repo.Count(ctx, f)
			if err != nil {
				return 0, err
			}
			_ = s.cache.SetCount(ctx, f, n)
			return n, nil
		})
		if err != nil {
			return 0, err
		}
		return v.(int), nil
	}
	return s.repo.Count(ctx, f)
}

func (s *TaskService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}

func buildPatch(in UpdateInput) (dom.TaskPatch, error) {
	var patch dom.TaskPatch

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return dom.TaskPatch{}, validationErr("title", "must not be empty")
		}
		patch.Title = &title
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		patch.Description = &desc
	}
	if in.Category != nil {
		cat := dom.Category(*in.Category)
		if !cat.Valid() {
			return dom.TaskPatch{}, validationErr("category", fmt.Sprintf("unknown value %q", *in.Category))
		}
		patch.Category = &cat
	}
	if in.Priority != nil {
		pri := dom.Priority(*in.Priority)
		if !pri.Valid() {
			return dom.TaskPatch{}, validationErr("priority", fmt.Sprintf("unknown value %q", *in.Priority))
		}
		patch.Priority = &pri
	}
	if in.Status != nil {
		st := dom.Status(*in.Status)
		if !st.Valid() {
			return dom.TaskPatch{}, validationErr("status", fmt.Sprintf("unknown value %q", *in.Status))
		}
		patch.Status = &st
	}
	if in.DueDate != nil {
		raw := strings.TrimSpace(*in.DueDate)
		if raw == "" {
			// Present but empty means "clear the due date".
			empty := ""
			patch.DueDate = &empty
		} else {
			if _, err := time.Parse(dom.DateLayout, raw); err != nil {
				return dom.TaskPatch{}, validationErr("due_date", "must be a date like 2026-02-19")
			}
			patch.DueDate = &raw
		}
	}
	return patch, nil
}

// normalizeDueDate maps the empty string to absent and validates the format.
func normalizeDueDate(raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if _, err := time.Parse(dom.DateLayout, raw); err != nil {
		return nil, validationErr("due_date", "must be a date like 2026-02-19")
	}
	return &raw, nil
}
