package handlers

import (
	"encoding/json"
	"net/http"

	"planora-project/backend/middleware"
	"planora-project/backend/services"

	"github.com/gorilla/mux"
)

type CategoryHandler struct {
	service *services.CategoryService
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context(), middleware.UserID(r))
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetCategoryDetails serves the metrics dashboard for one category, with the
// trend granularity selected by ?range=week|month|year.
func (h *CategoryHandler) GetCategoryDetails(w http.ResponseWriter, r *http.Request) {
	granularity := r.URL.Query().Get("range")
	if granularity == "" {
		granularity = "week"
	}

	details, err := h.service.Details(r.Context(), middleware.UserID(r), mux.Vars(r)["categoryID"], granularity)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), middleware.UserID(r), mux.Vars(r)["categoryID"], body.Name)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), middleware.UserID(r), mux.Vars(r)["categoryID"]); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully."})
}
