package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/beingsuperior/Freelancing-project-managment/auth"
	"github.com/beingsuperior/Freelancing-project-managment/config"
	"github.com/beingsuperior/Freelancing-project-managment/handlers"
	"github.com/beingsuperior/Freelancing-project-managment/logging"
	"github.com/beingsuperior/Freelancing-project-managment/middleware"
	"github.com/beingsuperior/Freelancing-project-managment/services"
	"github.com/beingsuperior/Freelancing-project-managment/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger("project-tracker", "")
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}

	logging.InitLogger("project-tracker", cfg.LogFile)
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting project tracker service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", cfg.MongoURI)

	db := client.Database(cfg.MongoDB)
	if err := store.EnsureUserIndexes(ctx, db.Collection("users")); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	breaker := store.NewBreaker("MongoCB")
	users := store.NewMongoCollection(db.Collection("users"), breaker)
	projects := store.NewMongoCollection(db.Collection("projects"), breaker)
	tasks := store.NewMongoCollection(db.Collection("tasks"), breaker)
	comments := store.NewMongoCollection(db.Collection("comments"), breaker)
	timeLog := store.NewMongoCollection(db.Collection("loggedTime"), breaker)

	jwtService := auth.NewJWTService(cfg.JWTSecret, 2*time.Hour)
	resolver := services.NewResolverService(users, projects, tasks, comments, timeLog)
	userService := services.NewUserService(users, jwtService)
	projectService := services.NewProjectService(projects, users, resolver)
	taskService := services.NewTaskService(tasks, projects, comments, timeLog, resolver)

	loginHandler := handlers.NewLoginHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := mux.NewRouter()

	r.HandleFunc("/api/auth/register", loginHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", loginHandler.Login).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.JWTAuth(jwtService))

	protected.HandleFunc("/users/me", userHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/users/me", userHandler.UpdateUser).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me", userHandler.DeleteUser).Methods(http.MethodDelete)

	protected.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	protected.HandleFunc("/projects/my", projectHandler.MyProjects).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id}/title", projectHandler.RenameProject).Methods(http.MethodPatch)
	protected.HandleFunc("/projects/{id}/clients", projectHandler.AddClient).Methods(http.MethodPost)
	protected.HandleFunc("/projects/{id}", projectHandler.DeleteProject).Methods(http.MethodDelete)

	protected.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	protected.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPatch)
	protected.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	protected.HandleFunc("/tasks/{id}/comments", taskHandler.AddComment).Methods(http.MethodPost)
	protected.HandleFunc("/comments/{id}", taskHandler.DeleteComment).Methods(http.MethodDelete)
	protected.HandleFunc("/tasks/{id}/time", taskHandler.AddLoggedTime).Methods(http.MethodPost)
	protected.HandleFunc("/time/{id}", taskHandler.DeleteLoggedTime).Methods(http.MethodDelete)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:      middleware.EnableCORS(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost:%s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
