package services

import (
	"sync"

	"planora-project/backend/models"
)

// TaskSnapshot is the rollback point for one optimistic write: the task's
// pre-mutation shape and position, plus the version the write was assigned.
type TaskSnapshot struct {
	userID  string
	taskID  string
	prev    *models.Task
	index   int
	version uint64
}

// TaskCache holds each user's task collection in memory. Collections are
// replaced whole under the lock, so readers observe either the pre- or
// post-mutation state, never a torn one. Per-task versions let a late
// rollback detect that a newer optimistic write already replaced its target.
type TaskCache struct {
	mu       sync.RWMutex
	tasks    map[string][]models.Task
	loaded   map[string]bool
	versions map[string]uint64
}

func NewTaskCache() *TaskCache {
	return &TaskCache{
		tasks:    make(map[string][]models.Task),
		loaded:   make(map[string]bool),
		versions: make(map[string]uint64),
	}
}

func versionKey(userID, taskID string) string {
	return userID + "/" + taskID
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Clone())
	}
	return out
}

// Loaded reports whether the user's collection has been fetched at least
// once. An empty collection is a valid loaded state.
func (c *TaskCache) Loaded(userID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded[userID]
}

// Get returns a copy of the user's collection.
func (c *TaskCache) Get(userID string) []models.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneTasks(c.tasks[userID])
}

// Replace installs an authoritative collection for the user.
func (c *TaskCache) Replace(userID string, tasks []models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks[userID] = cloneTasks(tasks)
	c.loaded[userID] = true
}

// Invalidate drops the user's collection so the next read refetches.
func (c *TaskCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tasks, userID)
	delete(c.loaded, userID)
}

// Apply runs an optimistic mutation against the user's collection and
// returns the snapshot a failed remote write rolls back to. The mutate
// function receives the current collection and returns the new one.
func (c *TaskCache) Apply(
	userID, taskID string,
	mutate func(tasks []models.Task) []models.Task,
) TaskSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := TaskSnapshot{userID: userID, taskID: taskID, index: -1}
	for i := range c.tasks[userID] {
		if c.tasks[userID][i].ID == taskID {
			prev := c.tasks[userID][i].Clone()
			snapshot.prev = &prev
			snapshot.index = i
			break
		}
	}

	c.tasks[userID] = mutate(c.tasks[userID])

	key := versionKey(userID, taskID)
	c.versions[key]++
	snapshot.version = c.versions[key]
	return snapshot
}

// Rollback restores the pre-mutation state of the snapshot's task, unless a
// newer optimistic write has already touched it: a stale rollback must not
// clobber a fresher write. Reports whether the restore happened.
func (c *TaskCache) Rollback(snapshot TaskSnapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := versionKey(snapshot.userID, snapshot.taskID)
	if c.versions[key] != snapshot.version {
		return false
	}

	tasks := c.tasks[snapshot.userID]
	restored := make([]models.Task, 0, len(tasks)+1)
	found := false
	for _, task := range tasks {
		if task.ID == snapshot.taskID {
			found = true
			if snapshot.prev != nil {
				// Undo an optimistic update in place.
				restored = append(restored, snapshot.prev.Clone())
			}
			// prev == nil: the task did not exist before (an optimistic
			// create), so dropping it is the restore.
			continue
		}
		restored = append(restored, task)
	}
	if !found && snapshot.prev != nil {
		// The mutation removed the task (an optimistic delete): reinsert it
		// at its original position.
		at := snapshot.index
		if at < 0 || at > len(restored) {
			at = len(restored)
		}
		restored = append(restored[:at], append([]models.Task{snapshot.prev.Clone()}, restored[at:]...)...)
	}
	c.tasks[snapshot.userID] = restored
	return true
}
