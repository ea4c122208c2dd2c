package routes

import (
	"amoro_server/controllers"
	"amoro_server/services"
	"amoro_server/utils"

	"github.com/gorilla/mux"
)

// RegisterMessageRoutes sets up routes for messaging under /api/message
func RegisterMessageRoutes(r *mux.Router, delivery *services.DeliveryService, messages services.MessageStore, verifier *utils.JWTVerifier) {
	controller := controllers.NewMessageController(delivery, messages)

	messageRouter := r.PathPrefix("/api/message").Subrouter()
	messageRouter.Use(verifier.Middleware)

	messageRouter.HandleFunc("", controller.HandleSendMessage).Methods("POST")
	messageRouter.HandleFunc("/profiles", controller.HandleGetMessagedProfiles).Methods("GET")
	messageRouter.HandleFunc("/conversation/{recipientId}", controller.HandleGetConversation).Methods("GET")
}
