package routes

import (
	"amoro_server/controllers"
	"amoro_server/services"
	"amoro_server/utils"

	"github.com/gorilla/mux"
)

// RegisterNotificationRoutes sets up routes for notifications under /api/notification
func RegisterNotificationRoutes(r *mux.Router, notifications *services.NotificationService, users services.UserStore, verifier *utils.JWTVerifier) {
	controller := controllers.NewNotificationController(notifications, users)

	notificationRouter := r.PathPrefix("/api/notification").Subrouter()
	notificationRouter.Use(verifier.Middleware)

	notificationRouter.HandleFunc("", controller.HandleGetNotifications).Methods("GET")
	notificationRouter.HandleFunc("/status", controller.HandleUpdateNotificationStatus).Methods("PUT")
	notificationRouter.HandleFunc("/push-token", controller.HandleSetPushToken).Methods("PUT")
}
