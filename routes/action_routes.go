package routes

import (
	"amoro_server/controllers"
	"amoro_server/services"
	"amoro_server/utils"

	"github.com/gorilla/mux"
)

// RegisterActionRoutes sets up routes for likes and matches under /api/action
func RegisterActionRoutes(r *mux.Router, matches *services.MatchService, likes services.LikeStore, matchStore services.MatchStore, verifier *utils.JWTVerifier) {
	controller := controllers.NewActionController(matches, likes, matchStore)

	actionRouter := r.PathPrefix("/api/action").Subrouter()
	actionRouter.Use(verifier.Middleware)

	actionRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	actionRouter.HandleFunc("/unlike", controller.HandleUnlike).Methods("POST")
	actionRouter.HandleFunc("/likes", controller.HandleGetLikes).Methods("GET")
	actionRouter.HandleFunc("/matches", controller.HandleGetMatches).Methods("GET")
}
