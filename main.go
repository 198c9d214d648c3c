package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"jobportal/tasks-service/handlers"
	"jobportal/tasks-service/logging"
	"jobportal/tasks-service/middleware"
	"jobportal/tasks-service/repositories"
	"jobportal/tasks-service/services"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Tasks Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	mongoCollectionName := os.Getenv("MONGO_COLLECTION")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tasksClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer tasksClient.Disconnect(ctx)

	if err := tasksClient.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	tasksCollection := tasksClient.Database(mongoDBName).Collection(mongoCollectionName)
	taskRepository := repositories.NewTaskRepository(tasksCollection)

	// Cassandra is optional; without it the service runs with the
	// notification feed disabled.
	var notifier services.Notifier
	var feed handlers.NotificationFeed
	if cassHost := os.Getenv("CASS_DB"); cassHost != "" {
		notificationRepository, err := repositories.NewNotificationRepository(cassHost)
		if err != nil {
			logging.Logger.Fatalf("Event ID: CASSANDRA_CONNECTION_FAILED, Description: Cassandra connection failed: %v", err)
		}
		defer notificationRepository.CloseSession()

		if err := notificationRepository.CreateTable(); err != nil {
			logging.Logger.Fatalf("Event ID: CASSANDRA_TABLE_FAILED, Description: %v", err)
		}

		notificationsBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "NotificationsCB",
			MaxRequests: 1,
			Timeout:     5 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
			},
		})

		notifier = services.NewBreakerNotifier(notificationRepository, notificationsBreaker)
		feed = notificationRepository
	} else {
		logging.Logger.Warn("Event ID: NOTIFICATIONS_DISABLED, Description: CASS_DB not set, notification feed disabled.")
	}

	taskService, err := services.NewTaskService(taskRepository, notifier)
	if err != nil {
		logging.Logger.Fatalf("Event ID: SERVICE_INIT_FAILED, Description: Failed to initialize task service: %v", err)
	}
	boardService, err := services.NewBoardService(taskRepository)
	if err != nil {
		logging.Logger.Fatalf("Event ID: SERVICE_INIT_FAILED, Description: Failed to initialize board service: %v", err)
	}

	taskHandler := handlers.NewTaskHandler(taskService)
	boardHandler := handlers.NewBoardHandler(boardService)
	notificationHandler := handlers.NewNotificationHandler(feed)

	r := mux.NewRouter()

	r.HandleFunc("/api/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/projections/{name}", boardHandler.ListProjection).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/board/{userID}", boardHandler.ViewActorBoard).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{taskID}/status", taskHandler.ChangeTaskStatus).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/progress", taskHandler.UpdateProgress).Methods(http.MethodPatch)
	r.HandleFunc("/api/tasks/{taskID}/comments", taskHandler.AddComment).Methods(http.MethodPost)
	r.HandleFunc("/api/notifications", notificationHandler.GetNotifications).Methods(http.MethodGet)
	r.HandleFunc("/api/notifications/{id}/read", notificationHandler.MarkAsRead).Methods(http.MethodPatch)

	corsHandler := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{"*"}),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	handler := gorillahandlers.LoggingHandler(os.Stdout, corsHandler(middleware.JWTAuthMiddleware(r)))

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, handler); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
