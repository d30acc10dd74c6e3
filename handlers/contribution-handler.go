package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/itzjapcee-code/mosquito-tracker/config"
	"github.com/itzjapcee-code/mosquito-tracker/models"
	"github.com/itzjapcee-code/mosquito-tracker/services"
)

type ContributionHandler struct {
	service *services.ContributionService
	tasks   *services.TaskService
}

func NewContributionHandler(service *services.ContributionService, tasks *services.TaskService) *ContributionHandler {
	return &ContributionHandler{service: service, tasks: tasks}
}

type addContributionRequest struct {
	User        string `json:"user"`
	TaskID      string `json:"task_id"`
	BaseLabel   string `json:"base_label"`
	AccelLabel  string `json:"accel_label"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Progress    *int   `json:"progress"`
}

// AddContribution records one daily report: the score is computed from the
// selected factor labels and the task's own difficulty, the task snapshot is
// taken here, and an optional progress value updates the task in the same
// submit, mirroring the daily check-in flow.
func (h *ContributionHandler) AddContribution(w http.ResponseWriter, r *http.Request) {
	var req addContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Description == "" {
		http.Error(w, "description is required", http.StatusBadRequest)
		return
	}

	tasks, err := h.tasks.ActiveTasks(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var task *models.Task
	for i := range tasks {
		if tasks[i].ID == req.TaskID {
			task = &tasks[i]
			break
		}
	}
	if task == nil {
		http.Error(w, "task not found or not active", http.StatusNotFound)
		return
	}

	score, err := config.BuildScore(req.BaseLabel, task.Difficulty, req.AccelLabel)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Progress != nil {
		if err := h.tasks.UpdateProgress(r.Context(), req.TaskID, *req.Progress); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	entry, err := h.service.Add(r.Context(), req.User, req.TaskID, task.Name, task.Category, task.Subcategory, score, req.Description, req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// GetContributions returns the denormalized, orphan-filtered reporting view.
func (h *ContributionHandler) GetContributions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(rows)
}

// GetRawContributions is the administrative listing: unfiltered, orphans
// included, newest first.
func (h *ContributionHandler) GetRawContributions(w http.ResponseWriter, r *http.Request) {
	contributions, err := h.service.Raw(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(contributions)
}

type correctContributionRequest struct {
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// CorrectContribution is the administrative in-place correction of a
// contribution's score and description.
func (h *ContributionHandler) CorrectContribution(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["contributionID"]

	var req correctContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Correct(r.Context(), id, req.Score, req.Description); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "corrected"})
}

func (h *ContributionHandler) DeleteContribution(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["contributionID"]

	removed, err := h.service.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]bool{"removed": removed})
}
