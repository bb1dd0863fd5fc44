package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"planora-project/backend/middleware"
	"planora-project/backend/models"
	"planora-project/backend/services"
	"planora-project/backend/utils"

	"github.com/gorilla/mux"
)

type TaskHandler struct {
	service     *services.TaskService
	coordinator *services.TaskCoordinator
}

func NewTaskHandler(service *services.TaskService, coordinator *services.TaskCoordinator) *TaskHandler {
	return &TaskHandler{service: service, coordinator: coordinator}
}

// parseFilter builds the composite filter from query parameters. Absent
// parameters leave their predicate unset.
func parseFilter(r *http.Request) models.TaskFilter {
	query := r.URL.Query()

	var filter models.TaskFilter
	for _, raw := range query["status"] {
		filter.Statuses = append(filter.Statuses, models.TaskStatus(raw))
	}
	for _, raw := range query["priority"] {
		filter.Priorities = append(filter.Priorities, models.TaskPriority(raw))
	}
	if raw := query.Get("from"); raw != "" {
		if from, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.DateFrom = &from
		}
	}
	if raw := query.Get("to"); raw != "" {
		if to, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.DateTo = &to
		}
	}
	filter.SearchQuery = query.Get("q")
	return filter
}

// GetTasks serves the filtered task list for the Today/Upcoming views.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	bucket := r.URL.Query().Get("range")

	views, err := h.service.ListTasks(r.Context(), userID, bucket, parseFilter(r))
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// CreateTask decodes the flat form payload, applies the optimistic create,
// and acknowledges once the remote write settles.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form payload")
		return
	}
	payload := utils.ParseTaskPayload(r.PostForm)

	task, done, err := h.coordinator.CreateTask(r.Context(), middleware.UserID(r), payload)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	result := <-done
	if result.Err != nil {
		writeError(w, http.StatusBadGateway, "Failed to create task. Please try again.")
		return
	}
	if result.Task != nil {
		task = *result.Task
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Task created successfully.",
		"task":    task,
	})
}

// UpdateTask replaces the task's editable fields from a sheet submission.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form payload")
		return
	}
	payload := utils.ParseTaskPayload(r.PostForm)
	if payload.TaskID == "" {
		payload.TaskID = mux.Vars(r)["taskID"]
	}

	done, err := h.coordinator.UpdateTaskFull(r.Context(), middleware.UserID(r), payload)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	result := <-done
	if result.Err != nil {
		writeError(w, http.StatusBadGateway, "Failed to update task. Please try again.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task updated successfully."})
}

// UpdateTaskTime handles calendar drag/resize updates: only the span moves.
func (h *TaskHandler) UpdateTaskTime(w http.ResponseWriter, r *http.Request) {
	var span models.TaskTime
	if err := json.NewDecoder(r.Body).Decode(&span); err != nil {
		writeError(w, http.StatusBadRequest, "invalid time payload")
		return
	}

	done, err := h.coordinator.UpdateTaskTime(r.Context(), middleware.UserID(r), mux.Vars(r)["taskID"], span)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	result := <-done
	if result.Err != nil {
		writeError(w, http.StatusBadGateway, "Failed to update task time. Please try again.")
		return
	}
	writeJSON(w, http.StatusOK, result.Task)
}

// ToggleComplete flips completed and keeps status in lockstep.
func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	done, err := h.coordinator.ToggleComplete(r.Context(), middleware.UserID(r), mux.Vars(r)["taskID"])
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	result := <-done
	if result.Err != nil {
		writeError(w, http.StatusBadGateway, "Failed to toggle task. Please try again.")
		return
	}
	writeJSON(w, http.StatusOK, result.Task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	done, err := h.coordinator.DeleteTask(r.Context(), middleware.UserID(r), mux.Vars(r)["taskID"])
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	result := <-done
	if result.Err != nil {
		writeError(w, http.StatusBadGateway, "Failed to delete task. Please try again.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully."})
}
