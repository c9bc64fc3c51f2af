package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	dom "github.com/julienby/taskflow/internal/domain"
)

// fakeTaskRepo is an in-memory TaskRepo with the same observable
// behavior as the SQLite implementation.
type fakeTaskRepo struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]dom.Task

	createCalls int
	updateCalls int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{nextID: 1, tasks: make(map[int64]dom.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++

	var maxOrder int64
	for _, existing := range r.tasks {
		if existing.SortOrder > maxOrder {
			maxOrder = existing.SortOrder
		}
	}

	t.ID = r.nextID
	r.nextID++
	t.Status = dom.StatusPending
	t.SortOrder = maxOrder + 1
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.tasks[t.ID] = t
	return t, nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id int64) (dom.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return dom.Task{}, sql.ErrNoRows
	}
	return t, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, id int64, patch dom.TaskPatch) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++

	t, ok := r.tasks[id]
	if !ok {
		return dom.Task{}, sql.ErrNoRows
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.DueDate != nil {
		if *patch.DueDate == "" {
			t.DueDate = nil
		} else {
			due := *patch.DueDate
			t.DueDate = &due
		}
	}
	t.UpdatedAt = time.Now()
	r.tasks[id] = t
	return t, nil
}

func (r *fakeTaskRepo) Toggle(_ context.Context, id int64) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return dom.Task{}, sql.ErrNoRows
	}
	t.Status = t.Status.Opposite()
	t.UpdatedAt = time.Now()
	r.tasks[id] = t
	return t, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

func (r *fakeTaskRepo) Reorder(_ context.Context, orderedIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, id := range orderedIDs {
		if t, ok := r.tasks[id]; ok {
			t.SortOrder = int64(i)
			t.UpdatedAt = time.Now()
			r.tasks[id] = t
		}
	}
	return nil
}

func (r *fakeTaskRepo) List(_ context.Context, f dom.TaskFilter) ([]dom.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []dom.Task
	for _, t := range r.tasks {
		if matches(t, f) {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].SortOrder != list[j].SortOrder {
			return list[i].SortOrder < list[j].SortOrder
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *fakeTaskRepo) Count(ctx context.Context, f dom.TaskFilter) (int, error) {
	list, err := r.List(ctx, f)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func matches(t dom.Task, f dom.TaskFilter) bool {
	if f.Search != nil && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(*f.Search)) {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	return true
}
