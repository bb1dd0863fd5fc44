package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"planora-project/backend/logging"
	"planora-project/backend/models"
	"planora-project/backend/utils"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// TaskStore is the remote task store the coordinator writes through. Calls
// are network-backed and may fail; the coordinator treats every result as
// eventually consistent.
type TaskStore interface {
	List(ctx context.Context, userID string) ([]models.Task, error)
	Create(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTime(ctx context.Context, userID, taskID string, span models.TaskTime) error
	UpdateFull(ctx context.Context, task models.Task) error
	Delete(ctx context.Context, userID, taskID string) error
	ToggleComplete(ctx context.Context, userID, taskID string) (models.Task, error)
}

// MutationResult is the settlement of one optimistic mutation: either the
// authoritative task shape, or the error plus whether the optimistic state
// was rolled back.
type MutationResult struct {
	Task       *models.Task
	Err        error
	RolledBack bool
}

// TaskCoordinator applies each mutation to the cache synchronously, then
// settles it against the remote store in the background. The optimistic
// write always happens before the remote call is issued; rollback or resync
// always happens after it resolves. A remote call that exceeds the deadline
// is treated as failed and forces a rollback, so no mutation stays pending
// forever.
type TaskCoordinator struct {
	cache   *TaskCache
	store   TaskStore
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	Now     func() time.Time
}

func NewTaskCoordinator(store TaskStore, breaker *gobreaker.CircuitBreaker, timeout time.Duration) *TaskCoordinator {
	return &TaskCoordinator{
		cache:   NewTaskCache(),
		store:   store,
		breaker: breaker,
		timeout: timeout,
		Now:     time.Now,
	}
}

// Cache exposes the shared collection for read paths.
func (c *TaskCoordinator) Cache() *TaskCache {
	return c.cache
}

// Tasks returns the user's cached collection, fetching it from the store on
// first read. A failed fetch is returned as-is; no partial data is invented.
func (c *TaskCoordinator) Tasks(ctx context.Context, userID string) ([]models.Task, error) {
	if c.cache.Loaded(userID) {
		return c.cache.Get(userID), nil
	}

	tasks, err := c.callList(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.cache.Replace(userID, tasks)
	return c.cache.Get(userID), nil
}

func (c *TaskCoordinator) callList(ctx context.Context, userID string) ([]models.Task, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.store.List(ctx, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}
	return result.([]models.Task), nil
}

// bumpUpdatedAt keeps UpdatedAt strictly increasing even when two mutations
// land within clock resolution.
func bumpUpdatedAt(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Millisecond)
}

// normalizeSpan auto-corrects an inverted span instead of rejecting it: an
// end before the start is pushed one hour past the start, matching the
// sheet's adjustment policy. All-day spans carry no clock invariant.
func normalizeSpan(span models.TaskTime) models.TaskTime {
	if !span.AllDay && span.End.Before(span.Start) {
		span.End = span.Start.Add(time.Hour)
	}
	return span
}

func statusOrDefault(status models.TaskStatus) models.TaskStatus {
	if status.Valid() {
		return status
	}
	return models.StatusTodo
}

func priorityOrDefault(priority models.TaskPriority) models.TaskPriority {
	if priority.Valid() {
		return priority
	}
	return models.PriorityModerate
}

// settle issues the remote write and commits or rolls back the optimistic
// state once it resolves. Settlement runs detached from the caller's
// lifetime; the returned channel delivers the outcome to anyone waiting.
func (c *TaskCoordinator) settle(
	ctx context.Context,
	snapshot TaskSnapshot,
	remote func(ctx context.Context) (*models.Task, error),
) <-chan MutationResult {
	done := make(chan MutationResult, 1)

	go func() {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		result, err := c.breaker.Execute(func() (interface{}, error) {
			return remote(callCtx)
		})
		if err != nil {
			rolledBack := c.cache.Rollback(snapshot)
			logging.Logger.Warnf("task mutation failed, rolled back: %v (task %s)", err, snapshot.taskID)
			done <- MutationResult{Err: err, RolledBack: rolledBack}
			return
		}

		// The optimistic shape is provisional: re-fetch the authoritative
		// collection so server-assigned fields win.
		if tasks, listErr := c.callList(callCtx, snapshot.userID); listErr == nil {
			c.cache.Replace(snapshot.userID, tasks)
		} else {
			logging.Logger.Warnf("resync after mutation failed: %v (user %s)", listErr, snapshot.userID)
			c.cache.Invalidate(snapshot.userID)
		}

		done <- MutationResult{Task: result.(*models.Task)}
	}()

	return done
}

// CreateTask validates the payload, inserts the optimistic task at the head
// of the collection, and settles against the store.
func (c *TaskCoordinator) CreateTask(
	ctx context.Context,
	userID string,
	payload utils.TaskPayload,
) (models.Task, <-chan MutationResult, error) {
	if strings.TrimSpace(payload.Title) == "" {
		return models.Task{}, nil, fmt.Errorf("%w: title is required", ErrTaskInvalidArgs)
	}

	now := c.Now()
	status := statusOrDefault(payload.Status)
	task := models.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       payload.Title,
		Description: payload.Description,
		Status:      status,
		Priority:    priorityOrDefault(payload.Priority),
		Time:        normalizeSpan(payload.Time),
		Category:    payload.Category,
		Tags:        payload.Tags,
		Subtasks:    payload.Subtasks,
		Completed:   status == models.StatusDone,
		Color:       payload.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	snapshot := c.cache.Apply(userID, task.ID, func(tasks []models.Task) []models.Task {
		return append([]models.Task{task.Clone()}, tasks...)
	})

	done := c.settle(ctx, snapshot, func(ctx context.Context) (*models.Task, error) {
		created, err := c.store.Create(ctx, task)
		if err != nil {
			return nil, fmt.Errorf("could not create task: %w", err)
		}
		return &created, nil
	})
	return task, done, nil
}

// UpdateTaskTime replaces only the task's span, as the calendar's drag and
// resize interactions do.
func (c *TaskCoordinator) UpdateTaskTime(
	ctx context.Context,
	userID, taskID string,
	span models.TaskTime,
) (<-chan MutationResult, error) {
	span = normalizeSpan(span)
	now := c.Now()

	updated, snapshot, err := c.applyToTask(userID, taskID, func(task models.Task) models.Task {
		task.Time = span
		task.UpdatedAt = bumpUpdatedAt(task.UpdatedAt, now)
		return task
	})
	if err != nil {
		return nil, err
	}

	return c.settle(ctx, snapshot, func(ctx context.Context) (*models.Task, error) {
		if err := c.store.UpdateTime(ctx, userID, taskID, span); err != nil {
			return nil, fmt.Errorf("could not update task time: %w", err)
		}
		return &updated, nil
	}), nil
}

// UpdateTaskFull replaces the task's editable fields from a sheet
// submission. Completed is derived from the submitted status so the
// completed/status invariant cannot drift.
func (c *TaskCoordinator) UpdateTaskFull(
	ctx context.Context,
	userID string,
	payload utils.TaskPayload,
) (<-chan MutationResult, error) {
	if payload.TaskID == "" {
		return nil, fmt.Errorf("%w: taskId is required", ErrTaskInvalidArgs)
	}
	if strings.TrimSpace(payload.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrTaskInvalidArgs)
	}

	now := c.Now()
	status := statusOrDefault(payload.Status)

	updated, snapshot, err := c.applyToTask(userID, payload.TaskID, func(task models.Task) models.Task {
		task.Title = payload.Title
		task.Description = payload.Description
		task.Status = status
		task.Priority = priorityOrDefault(payload.Priority)
		task.Time = normalizeSpan(payload.Time)
		task.Category = payload.Category
		task.Tags = payload.Tags
		task.Subtasks = payload.Subtasks
		task.Color = payload.Color
		task.Completed = status == models.StatusDone
		task.UpdatedAt = bumpUpdatedAt(task.UpdatedAt, now)
		return task
	})
	if err != nil {
		return nil, err
	}

	return c.settle(ctx, snapshot, func(ctx context.Context) (*models.Task, error) {
		if err := c.store.UpdateFull(ctx, updated); err != nil {
			return nil, fmt.Errorf("could not update task: %w", err)
		}
		return &updated, nil
	}), nil
}

// ToggleComplete flips the task between done and todo, keeping Completed and
// Status consistent. Two applications return the task to its original pair.
func (c *TaskCoordinator) ToggleComplete(
	ctx context.Context,
	userID, taskID string,
) (<-chan MutationResult, error) {
	now := c.Now()

	_, snapshot, err := c.applyToTask(userID, taskID, func(task models.Task) models.Task {
		task.Completed = !task.Completed
		if task.Completed {
			task.Status = models.StatusDone
		} else {
			task.Status = models.StatusTodo
		}
		task.UpdatedAt = bumpUpdatedAt(task.UpdatedAt, now)
		return task
	})
	if err != nil {
		return nil, err
	}

	return c.settle(ctx, snapshot, func(ctx context.Context) (*models.Task, error) {
		toggled, err := c.store.ToggleComplete(ctx, userID, taskID)
		if err != nil {
			return nil, fmt.Errorf("could not toggle task: %w", err)
		}
		return &toggled, nil
	}), nil
}

// DeleteTask removes the task (and, through the store, its subtasks) after
// an optimistic removal from the cache.
func (c *TaskCoordinator) DeleteTask(
	ctx context.Context,
	userID, taskID string,
) (<-chan MutationResult, error) {
	if !c.taskExists(userID, taskID) {
		return nil, ErrTaskNotFound
	}

	snapshot := c.cache.Apply(userID, taskID, func(tasks []models.Task) []models.Task {
		out := make([]models.Task, 0, len(tasks))
		for _, task := range tasks {
			if task.ID != taskID {
				out = append(out, task)
			}
		}
		return out
	})

	return c.settle(ctx, snapshot, func(ctx context.Context) (*models.Task, error) {
		if err := c.store.Delete(ctx, userID, taskID); err != nil {
			return nil, fmt.Errorf("could not delete task: %w", err)
		}
		return nil, nil
	}), nil
}

func (c *TaskCoordinator) taskExists(userID, taskID string) bool {
	for _, task := range c.cache.Get(userID) {
		if task.ID == taskID {
			return true
		}
	}
	return false
}

// applyToTask applies the transform to one cached task and returns the
// mutated shape together with the rollback snapshot.
func (c *TaskCoordinator) applyToTask(
	userID, taskID string,
	transform func(task models.Task) models.Task,
) (models.Task, TaskSnapshot, error) {
	if !c.taskExists(userID, taskID) {
		return models.Task{}, TaskSnapshot{}, ErrTaskNotFound
	}

	var updated models.Task
	snapshot := c.cache.Apply(userID, taskID, func(tasks []models.Task) []models.Task {
		out := make([]models.Task, 0, len(tasks))
		for _, task := range tasks {
			if task.ID == taskID {
				task = transform(task.Clone())
				updated = task.Clone()
			}
			out = append(out, task)
		}
		return out
	})
	return updated, snapshot, nil
}
