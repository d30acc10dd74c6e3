package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/itzjapcee-code/mosquito-tracker/services"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type createTaskRequest struct {
	Creator     string `json:"creator"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Difficulty  string `json:"difficulty"`
	Operator    string `json:"operator"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	task, err := h.service.CreateTask(r.Context(), req.Creator, req.Name, req.Category, req.Subcategory, req.Difficulty, req.Operator)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

// GetActiveTasks returns all active tasks, or only those involving the user
// named in the ?user= query parameter.
func (h *TaskHandler) GetActiveTasks(w http.ResponseWriter, r *http.Request) {
	var err error
	var tasks interface{}

	if user := r.URL.Query().Get("user"); user != "" {
		tasks, err = h.service.TasksInvolving(r.Context(), user)
	} else {
		tasks, err = h.service.ActiveTasks(r.Context())
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tasks)
}

type joinTaskRequest struct {
	User string `json:"user"`
}

func (h *TaskHandler) JoinTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]

	var req joinTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.User == "" {
		http.Error(w, "user is required", http.StatusBadRequest)
		return
	}

	joined, err := h.service.JoinTask(r.Context(), req.User, taskID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]bool{"joined": joined})
}

type updateProgressRequest struct {
	Progress int `json:"progress"`
}

func (h *TaskHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]

	var req updateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Progress < 0 || req.Progress > 100 {
		http.Error(w, "progress must be between 0 and 100", http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateProgress(r.Context(), taskID, req.Progress); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "updated"})
}

// DeleteTask is the administrative cascade delete: the task goes away together
// with every contribution that references it.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]

	removed, err := h.service.DeleteTaskCascade(r.Context(), taskID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]int{"contributions_removed": removed})
}

type patchTaskRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// PatchTask is the administrative single-field correction for progress and
// status.
func (h *TaskHandler) PatchTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]

	var req patchTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Field != "progress" && req.Field != "status" {
		http.Error(w, "only progress and status may be patched", http.StatusBadRequest)
		return
	}

	if err := h.service.PatchTask(r.Context(), taskID, req.Field, req.Value); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "patched"})
}
