package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"planora-project/backend/handlers"
	"planora-project/backend/logging"
	"planora-project/backend/middleware"
	"planora-project/backend/repositories"
	"planora-project/backend/services"
	"planora-project/backend/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()
	logging.Logger.Info("starting planora backend")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("no .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoURI == "" || mongoDBName == "" {
		logging.Logger.Fatal("MONGO_URI and MONGO_DB_NAME must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("database connection failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("database ping failed: %v", err)
	}
	logging.Logger.Infof("connected to MongoDB database %s", mongoDBName)

	db := client.Database(mongoDBName)

	storeBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TaskStoreCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("circuit breaker %s changed from %s to %s", name, from.String(), to.String())
		},
	})

	mutationTimeout := 5 * time.Second
	if raw := os.Getenv("MUTATION_TIMEOUT_SECONDS"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			mutationTimeout = time.Duration(seconds) * time.Second
		}
	}

	blacklist := map[string]bool{}
	if path := os.Getenv("PASSWORD_BLACKLIST_FILE"); path != "" {
		if loaded, err := utils.LoadBlacklist(path); err != nil {
			logging.Logger.Warnf("could not load password blacklist: %v", err)
		} else {
			blacklist = loaded
		}
	}

	taskRepo := repositories.NewTaskRepo(db)
	categoryRepo := repositories.NewCategoryRepo(db)
	userRepo := repositories.NewUserRepo(db)

	coordinator := services.NewTaskCoordinator(taskRepo, storeBreaker, mutationTimeout)
	taskService := services.NewTaskService(coordinator)
	categoryService := services.NewCategoryService(categoryRepo)
	userService := services.NewUserService(userRepo, blacklist)

	taskHandler := handlers.NewTaskHandler(taskService, coordinator)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	userHandler := handlers.NewUserHandler(userService)

	r := mux.NewRouter()

	r.HandleFunc("/api/users/register", userHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/users/verify", userHandler.Verify).Methods(http.MethodPost)
	r.HandleFunc("/api/users/login", userHandler.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuthMiddleware)
	api.HandleFunc("/tasks", taskHandler.GetTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{taskID}", taskHandler.UpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{taskID}/time", taskHandler.UpdateTaskTime).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{taskID}/toggle-complete", taskHandler.ToggleComplete).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{taskID}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/categories", categoryHandler.GetCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{categoryID}/details", categoryHandler.GetCategoryDetails).Methods(http.MethodGet)
	api.HandleFunc("/categories/{categoryID}", categoryHandler.UpdateCategory).Methods(http.MethodPut)
	api.HandleFunc("/categories/{categoryID}", categoryHandler.DeleteCategory).Methods(http.MethodDelete)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}
	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, enableCORS(r)); err != nil {
		logging.Logger.Fatalf("server failed to start: %v", err)
	}
}
