package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/itzjapcee-code/mosquito-tracker/db"
	"github.com/itzjapcee-code/mosquito-tracker/services"
)

type ReportHandler struct {
	service *services.ReportService
	mode    db.Mode
}

func NewReportHandler(service *services.ReportService, mode db.Mode) *ReportHandler {
	return &ReportHandler{service: service, mode: mode}
}

func (h *ReportHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Leaderboard(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(entries)
}

func (h *ReportHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(overview)
}

func (h *ReportHandler) GetTaskTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.TaskTree(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tree)
}

func (h *ReportHandler) GetAtRiskTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.AtRiskTasks(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tasks)
}

// Health reports which backend the process resolved to, so operators can see
// a silent downgrade to local mode.
func (h *ReportHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"backend": string(h.mode),
	})
}
