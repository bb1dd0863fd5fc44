package utils

import (
	"encoding/json"
	"net/url"
	"time"

	"planora-project/backend/models"
)

// TaskPayload is the decoded shape of a task form submission. Forms arrive
// as flat key-value pairs with array fields JSON-encoded.
type TaskPayload struct {
	TaskID      string
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	Category    models.CategoryRef
	Color       models.TaskColor
	Tags        []string
	Subtasks    []models.Subtask
	Time        models.TaskTime
}

func jsonArray[T any](raw string) []T {
	if raw == "" {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		// Malformed array fields degrade to empty rather than failing the
		// whole mutation.
		return []T{}
	}
	return out
}

func parseInstant(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseTaskPayload decodes a flat form submission into a typed payload.
func ParseTaskPayload(values url.Values) TaskPayload {
	return TaskPayload{
		TaskID:      values.Get("taskId"),
		Title:       values.Get("title"),
		Description: values.Get("description"),
		Status:      models.TaskStatus(values.Get("status")),
		Priority:    models.TaskPriority(values.Get("priority")),
		Category: models.CategoryRef{
			ID:   values.Get("categoryId"),
			Name: values.Get("categoryName"),
		},
		Color:    models.TaskColor(values.Get("color")),
		Tags:     jsonArray[string](values.Get("tags")),
		Subtasks: jsonArray[models.Subtask](values.Get("subtasks")),
		Time: models.TaskTime{
			Start:        parseInstant(values.Get("timeStart")),
			End:          parseInstant(values.Get("timeEnd")),
			TimeEstimate: values.Get("timeEstimate"),
			AllDay:       values.Get("allDay") == "true",
		},
	}
}
