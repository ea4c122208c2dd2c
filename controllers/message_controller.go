package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"amoro_server/services"
	"amoro_server/utils"

	"github.com/gorilla/mux"
)

// MessageController struct
type MessageController struct {
	Delivery *services.DeliveryService
	Messages services.MessageStore
}

// NewMessageController initializes the message controller
func NewMessageController(delivery *services.DeliveryService, messages services.MessageStore) *MessageController {
	return &MessageController{Delivery: delivery, Messages: messages}
}

// HandleSendMessage - Routes a message through the delivery service
func (c *MessageController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	senderID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "Missing credentials"}`, http.StatusUnauthorized)
		return
	}

	var request struct {
		Receiver string `json:"receiver"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	message, err := c.Delivery.Send(r.Context(), senderID, request.Receiver, request.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, `{"message": "Receiver doesn't exist"}`, http.StatusBadRequest)
		case errors.Is(err, services.ErrInvalidOperation):
			http.Error(w, `{"error": "Missing required fields: receiver or message"}`, http.StatusBadRequest)
		default:
			http.Error(w, `{"error": "Failed to send message"}`, http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(message)
}

// HandleGetConversation - Fetch the full conversation with a recipient
func (c *MessageController) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "Missing credentials"}`, http.StatusUnauthorized)
		return
	}

	recipientID := mux.Vars(r)["recipientId"]
	if recipientID == "" {
		http.Error(w, `{"error": "recipientId is required"}`, http.StatusBadRequest)
		return
	}

	messages, err := c.Messages.Conversation(r.Context(), userID, recipientID)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch conversation"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"messages": messages})
}

// HandleGetMessagedProfiles - Distinct conversation partners with the
// latest message each, newest first
func (c *MessageController) HandleGetMessagedProfiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "Missing credentials"}`, http.StatusUnauthorized)
		return
	}

	latest, err := c.Messages.ConversationPartners(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch profiles"}`, http.StatusInternalServerError)
		return
	}

	type partner struct {
		UserID              string `json:"userId"`
		LatestMessage       string `json:"latestMessage"`
		LatestMessageSendAt string `json:"latestMessageSendAt"`
	}
	profiles := make([]partner, 0, len(latest))
	for _, m := range latest {
		peer := m.SenderID
		if peer == userID {
			peer = m.ReceiverID
		}
		profiles = append(profiles, partner{
			UserID:              peer,
			LatestMessage:       m.Content,
			LatestMessageSendAt: m.SentAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"profiles": profiles})
}
