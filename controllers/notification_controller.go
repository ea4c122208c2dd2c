package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"amoro_server/services"
	"amoro_server/utils"
)

// NotificationController struct
type NotificationController struct {
	Notifications *services.NotificationService
	Users         services.UserStore
}

// NewNotificationController initializes the notification controller
func NewNotificationController(notifications *services.NotificationService, users services.UserStore) *NotificationController {
	return &NotificationController{Notifications: notifications, Users: users}
}

// HandleGetNotifications - Caller's notifications, newest first, paginated
func (c *NotificationController) HandleGetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "Missing credentials"}`, http.StatusUnauthorized)
		return
	}

	notifications, err := c.Notifications.List(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch notifications"}`, http.StatusInternalServerError)
		return
	}

	page, limit := pagination(r)
	bounds, totalPages := paginate(len(notifications), page, limit)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"notifications":      notifications[bounds[0]:bounds[1]],
		"currentPage":        page,
		"totalPages":         totalPages,
		"totalNotifications": len(notifications),
	})
}

// HandleUpdateNotificationStatus - Mark a notification as received
func (c *NotificationController) HandleUpdateNotificationStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "Missing credentials"}`, http.StatusUnauthorized)
		return
	}

	var request struct {
		SenderID string `json:"senderId"`
		Type     string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.SenderID == "" || request.Type == "" {
		http.Error(w, `{"error": "senderId and type are required"}`, http.StatusBadRequest)
		return
	}

	if err := c.Notifications.MarkReceived(r.Context(), userID, request.SenderID, request.Type); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, `{"message": "Notification not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"message": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Notification status updated successfully"})
}

// HandleSetPushToken - Register the caller's device push token
func (c *NotificationController) HandleSetPushToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "Missing credentials"}`, http.StatusUnauthorized)
		return
	}

	var request struct {
		PushToken string `json:"pushToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.PushToken == "" {
		http.Error(w, `{"error": "pushToken is required"}`, http.StatusBadRequest)
		return
	}

	if err := c.Users.SetPushToken(r.Context(), userID, request.PushToken); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, `{"message": "User not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"message": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Push token updated successfully"})
}
