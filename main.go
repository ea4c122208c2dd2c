package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"amoro_server/config"
	"amoro_server/routes"
	"amoro_server/services"
	"amoro_server/socket"
	"amoro_server/utils"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	var zl *zap.Logger
	if cfg.LogDev {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	// Initialize DynamoDB client and service
	logger.Info("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	logger.Info("DynamoDB client initialized.")

	// Stores
	messageStore := services.NewDynamoMessageStore(dynamoService)
	userStore := services.NewDynamoUserStore(dynamoService)
	likeStore := services.NewDynamoLikeStore(dynamoService)
	matchStore := services.NewDynamoMatchStore(dynamoService)
	notificationStore := services.NewDynamoNotificationStore(dynamoService)

	// Services
	notificationService := services.NewNotificationService(notificationStore, userStore, &services.LogPushSender{Logger: logger}, logger)

	verifier := utils.NewJWTVerifier(cfg.JWTSecret)
	registry := socket.NewRegistry()
	socketServer := socket.NewServer(registry, messageStore, verifier, socket.Options{
		WriteWait:      cfg.WS.WriteWait(),
		PongWait:       cfg.WS.PongWait(),
		PingPeriod:     cfg.WS.PingPeriod(),
		MaxMessageSize: cfg.WS.MaxMessageSizeBytes,
	}, logger)

	deliveryService := services.NewDeliveryService(messageStore, userStore, registry, logger)
	matchService := services.NewMatchService(userStore, likeStore, matchStore, notificationService, logger)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Amoro")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws", socketServer.HandleWS)

	// Register routes
	routes.RegisterMessageRoutes(r, deliveryService, messageStore, verifier)
	routes.RegisterActionRoutes(r, matchService, likeStore, matchStore, verifier)
	routes.RegisterNotificationRoutes(r, notificationService, userStore, verifier)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	logger.Infof("Starting server on port %s...", cfg.Port)
	logger.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
