package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"amoro_server/services"
	"amoro_server/utils"
)

// ActionController handles like/unlike actions and the lists derived
// from them.
type ActionController struct {
	Matches    *services.MatchService
	Likes      services.LikeStore
	MatchStore services.MatchStore
}

// NewActionController initializes the action controller
func NewActionController(matches *services.MatchService, likes services.LikeStore, matchStore services.MatchStore) *ActionController {
	return &ActionController{Matches: matches, Likes: likes, MatchStore: matchStore}
}

// HandleLike - Like a profile; may complete a mutual match
func (c *ActionController) HandleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "Missing credentials"}`, http.StatusUnauthorized)
		return
	}

	var request struct {
		LikedID string `json:"likedId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	outcome, err := c.Matches.Like(r.Context(), userID, request.LikedID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOperation):
			http.Error(w, `{"message": "Cannot like yourself"}`, http.StatusBadRequest)
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, `{"message": "Profile not found"}`, http.StatusNotFound)
		default:
			http.Error(w, `{"message": "Internal server error"}`, http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch outcome {
	case services.LikeOutcomeDuplicate:
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "You have already liked this profile.",
		})
	case services.LikeOutcomeMatched:
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"matched": true,
			"message": "It's a match!",
		})
	default:
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Profile liked successfully",
		})
	}
}

// HandleUnlike - Remove a like; unwinds any match it was part of
func (c *ActionController) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "Missing credentials"}`, http.StatusUnauthorized)
		return
	}

	var request struct {
		UnlikedID string `json:"unlikedId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	outcome, err := c.Matches.Unlike(r.Context(), userID, request.UnlikedID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOperation):
			http.Error(w, `{"message": "Invalid profile ID"}`, http.StatusBadRequest)
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, `{"message": "Profile not found"}`, http.StatusNotFound)
		default:
			http.Error(w, `{"message": "Internal server error"}`, http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if outcome == services.UnlikeOutcomeNotLiked {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "You have not liked this profile.",
		})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Profile unliked successfully",
	})
}

// HandleGetLikes - Incoming likes for the caller, newest first
func (c *ActionController) HandleGetLikes(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "Missing credentials"}`, http.StatusUnauthorized)
		return
	}

	edges, err := c.Likes.IncomingLikes(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch likes"}`, http.StatusInternalServerError)
		return
	}

	page, limit := pagination(r)
	paged, totalPages := paginate(len(edges), page, limit)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"likes":       edges[paged[0]:paged[1]],
		"currentPage": page,
		"totalPages":  totalPages,
		"totalLikes":  len(edges),
	})
}

// HandleGetMatches - The caller's matches
func (c *ActionController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "Missing credentials"}`, http.StatusUnauthorized)
		return
	}

	matches, err := c.MatchStore.MatchesFor(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch matches"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"matches": matches})
}
