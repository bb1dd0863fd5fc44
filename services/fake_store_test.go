package services

import (
	"context"
	"sync"

	"planora-project/backend/models"
)

// fakeStore is an in-memory TaskStore for coordinator tests. Sticky
// per-method errors simulate remote failures; gates hold a call open until
// the test releases it (or the call's deadline fires).
type fakeStore struct {
	mu    sync.Mutex
	tasks map[string][]models.Task

	listErr       error
	createErr     error
	updateTimeErr error
	updateFullErr error
	deleteErr     error
	toggleErr     error

	updateTimeGate chan struct{}

	listCalls int
}

func newFakeStore(seed map[string][]models.Task) *fakeStore {
	tasks := make(map[string][]models.Task)
	for userID, list := range seed {
		tasks[userID] = cloneTasks(list)
	}
	return &fakeStore{tasks: tasks}
}

func pause(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *fakeStore) List(ctx context.Context, userID string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return cloneTasks(s.tasks[userID]), nil
}

func (s *fakeStore) Create(ctx context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return models.Task{}, s.createErr
	}
	s.tasks[task.UserID] = append([]models.Task{task.Clone()}, s.tasks[task.UserID]...)
	return task, nil
}

func (s *fakeStore) UpdateTime(ctx context.Context, userID, taskID string, span models.TaskTime) error {
	s.mu.Lock()
	gate := s.updateTimeGate
	s.mu.Unlock()
	if err := pause(ctx, gate); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateTimeErr != nil {
		return s.updateTimeErr
	}
	for i := range s.tasks[userID] {
		if s.tasks[userID][i].ID == taskID {
			s.tasks[userID][i].Time = span
			return nil
		}
	}
	return ErrTaskNotFound
}

func (s *fakeStore) UpdateFull(ctx context.Context, task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateFullErr != nil {
		return s.updateFullErr
	}
	for i := range s.tasks[task.UserID] {
		if s.tasks[task.UserID][i].ID == task.ID {
			s.tasks[task.UserID][i] = task.Clone()
			return nil
		}
	}
	return ErrTaskNotFound
}

func (s *fakeStore) Delete(ctx context.Context, userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i := range s.tasks[userID] {
		if s.tasks[userID][i].ID == taskID {
			s.tasks[userID] = append(s.tasks[userID][:i], s.tasks[userID][i+1:]...)
			return nil
		}
	}
	return ErrTaskNotFound
}

func (s *fakeStore) ToggleComplete(ctx context.Context, userID, taskID string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.toggleErr != nil {
		return models.Task{}, s.toggleErr
	}
	for i := range s.tasks[userID] {
		if s.tasks[userID][i].ID == taskID {
			task := &s.tasks[userID][i]
			task.Completed = !task.Completed
			if task.Completed {
				task.Status = models.StatusDone
			} else {
				task.Status = models.StatusTodo
			}
			return task.Clone(), nil
		}
	}
	return models.Task{}, ErrTaskNotFound
}
