package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/julienby/taskflow/internal/domain"
)

func newTestService() (*fakeTaskRepo, *TaskService) {
	r := newFakeTaskRepo()
	return r, NewTaskService(r, nil)
}

func TestCreateTrimsTitleAndDefaults(t *testing.T) {
	_, svc := newTestService()

	task, err := svc.Create(context.Background(), "  walk the dog  ", "", "", "")
	require.NoError(t, err)

	assert.Equal(t, "walk the dog", task.Title)
	assert.Equal(t, dom.CategoryPersonal, task.Category)
	assert.Equal(t, dom.PriorityMedium, task.Priority)
	assert.Equal(t, dom.StatusPending, task.Status)
	assert.Nil(t, task.DueDate)
}

func TestCreateEmptyTitleRejected(t *testing.T) {
	r, svc := newTestService()

	_, err := svc.Create(context.Background(), "   ", "", "", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)

	// Nothing reached the repo.
	assert.Equal(t, 0, r.createCalls)
}

func TestCreateInvalidEnumRejected(t *testing.T) {
	r, svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "task", "chores", "", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "category", ve.Field)

	_, err = svc.Create(ctx, "task", "", "urgent", "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "priority", ve.Field)

	assert.Equal(t, 0, r.createCalls)
}

func TestCreateDueDateHandling(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	task, err := svc.Create(ctx, "dated", "shopping", "low", "2024-01-01")
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2024-01-01", *task.DueDate)

	// Empty string normalizes to absent.
	task, err = svc.Create(ctx, "undated", "", "", "")
	require.NoError(t, err)
	assert.Nil(t, task.DueDate)

	_, err = svc.Create(ctx, "bad date", "", "", "tomorrow")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "due_date", ve.Field)
}

func TestGetByIDNotFound(t *testing.T) {
	_, svc := newTestService()

	_, err := svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateValidatesBeforeWriting(t *testing.T) {
	r, svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "stable", "", "", "")
	require.NoError(t, err)

	bad := "urgent"
	_, err = svc.Update(ctx, created.ID, UpdateInput{Priority: &bad})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 0, r.updateCalls)

	// The row is untouched.
	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, dom.PriorityMedium, got.Priority)
}

func TestUpdatePartialFields(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "original", "work", "high", "2026-01-15")
	require.NoError(t, err)

	title := "  renamed  "
	status := "completed"
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Title: &title, Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, dom.StatusCompleted, updated.Status)
	assert.Equal(t, dom.CategoryWork, updated.Category)
	assert.Equal(t, dom.PriorityHigh, updated.Priority)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2026-01-15", *updated.DueDate)
}

func TestUpdateClearsDueDate(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "dated", "", "", "2026-01-15")
	require.NoError(t, err)

	empty := ""
	updated, err := svc.Update(ctx, created.ID, UpdateInput{DueDate: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestUpdateEmptyTitleRejected(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "named", "", "", "")
	require.NoError(t, err)

	blank := "   "
	_, err = svc.Update(ctx, created.ID, UpdateInput{Title: &blank})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)
}

func TestUpdateNotFound(t *testing.T) {
	_, svc := newTestService()

	title := "ghost"
	_, err := svc.Update(context.Background(), 404, UpdateInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleRoundTrip(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "flip", "", "", "")
	require.NoError(t, err)

	once, err := svc.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, dom.StatusCompleted, once.Status)

	twice, err := svc.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Status, twice.Status)
	assert.False(t, twice.UpdatedAt.Before(once.UpdatedAt))
}

func TestToggleNotFound(t *testing.T) {
	_, svc := newTestService()

	_, err := svc.Toggle(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReportsRemoval(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "goner", "", "", "")
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestReorderAssignsPositions(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, "a", "", "", "")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "b", "", "", "")
	require.NoError(t, err)
	c, err := svc.Create(ctx, "c", "", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Reorder(ctx, []int64{c.ID, a.ID, b.ID}))

	list, err := svc.List(ctx, dom.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, c.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
	assert.Equal(t, b.ID, list[2].ID)
}

func TestListCountConsistency(t *testing.T) {
	_, svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "Buy milk", "shopping", "low", "")
	require.NoError(t, err)
	done, err := svc.Create(ctx, "Go for a run", "health", "", "")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, done.ID)
	require.NoError(t, err)

	for _, f := range []dom.TaskFilter{
		{},
		{Status: statusPtr(dom.StatusPending)},
		{Status: statusPtr(dom.StatusCompleted)},
		{Search: titlePtr("milk")},
	} {
		list, err := svc.List(ctx, f)
		require.NoError(t, err)
		count, err := svc.Count(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, len(list), count)
	}
}

func statusPtr(s dom.Status) *dom.Status { return &s }
func titlePtr(s string) *string          { return &s }
