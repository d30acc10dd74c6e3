package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/itzjapcee-code/mosquito-tracker/db"
	"github.com/itzjapcee-code/mosquito-tracker/handlers"
	"github.com/itzjapcee-code/mosquito-tracker/inference"
	"github.com/itzjapcee-code/mosquito-tracker/logging"
	"github.com/itzjapcee-code/mosquito-tracker/middleware"
	"github.com/itzjapcee-code/mosquito-tracker/services"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Secret")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Mosquito Tracker Service...")
	if err := godotenv.Load(".env"); err != nil {
		// Env files are optional; the process env alone is enough.
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	conn := db.Open(db.Config{
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDBName:       os.Getenv("MONGO_DB_NAME"),
		TasksFile:         os.Getenv("TASKS_FILE"),
		ContributionsFile: os.Getenv("CONTRIBUTIONS_FILE"),
	})
	if client := conn.Client(); client != nil {
		defer client.Disconnect(context.Background())
	}
	logging.Logger.Infof("Event ID: DB_MODE_RESOLVED, Description: Persistence backend resolved to %s mode.", conn.Mode)

	taskService := services.NewTaskService(conn.Store)
	contributionService := services.NewContributionService(conn.Store)
	reportService := services.NewReportService(taskService, contributionService)
	classifier := inference.NewHTTPClassifier(os.Getenv("INFERENCE_URL"))

	taskHandler := handlers.NewTaskHandler(taskService)
	contributionHandler := handlers.NewContributionHandler(contributionService, taskService)
	reportHandler := handlers.NewReportHandler(reportService, conn.Mode)
	detectHandler := handlers.NewDetectHandler(classifier)

	adminSecret := os.Getenv("ADMIN_SECRET")
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.AdminAuth(adminSecret, h)
	}

	r := mux.NewRouter()

	r.HandleFunc("/api/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks", taskHandler.GetActiveTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}/join", taskHandler.JoinTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/progress", taskHandler.UpdateProgress).Methods(http.MethodPost)

	r.HandleFunc("/api/contributions", contributionHandler.AddContribution).Methods(http.MethodPost)
	r.HandleFunc("/api/contributions", contributionHandler.GetContributions).Methods(http.MethodGet)

	r.HandleFunc("/api/reports/leaderboard", reportHandler.GetLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/api/reports/overview", reportHandler.GetOverview).Methods(http.MethodGet)
	r.HandleFunc("/api/reports/tree", reportHandler.GetTaskTree).Methods(http.MethodGet)
	r.HandleFunc("/api/reports/at-risk", reportHandler.GetAtRiskTasks).Methods(http.MethodGet)

	r.HandleFunc("/api/detect", detectHandler.Detect).Methods(http.MethodPost)
	r.HandleFunc("/api/health", reportHandler.Health).Methods(http.MethodGet)

	r.Handle("/api/admin/tasks/{taskID}", admin(taskHandler.DeleteTask)).Methods(http.MethodDelete)
	r.Handle("/api/admin/tasks/{taskID}", admin(taskHandler.PatchTask)).Methods(http.MethodPatch)
	r.Handle("/api/admin/contributions", admin(contributionHandler.GetRawContributions)).Methods(http.MethodGet)
	r.Handle("/api/admin/contributions/{contributionID}", admin(contributionHandler.CorrectContribution)).Methods(http.MethodPatch)
	r.Handle("/api/admin/contributions/{contributionID}", admin(contributionHandler.DeleteContribution)).Methods(http.MethodDelete)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
