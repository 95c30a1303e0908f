package matches

import (
	"github.com/gorilla/mux"

	"github.com/saurabh98s/SammySwipe/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, hub *Hub, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matches").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Scoring
	api.HandleFunc("/recommendations", handler.GetRecommendations).Methods("GET")
	api.HandleFunc("/my-matches", handler.GetMyMatches).Methods("GET")
	api.HandleFunc("/compatibility/{userId}", handler.GetCompatibility).Methods("GET")
	api.HandleFunc("/statistics", handler.GetStatistics).Methods("GET")

	// Realtime match events
	api.HandleFunc("/ws", hub.ServeWS).Methods("GET")

	// State machine
	api.HandleFunc("/{userId}", handler.Like).Methods("POST")
	api.HandleFunc("/{userId}/accept", handler.Accept).Methods("PUT")
	api.HandleFunc("/{userId}/reject", handler.Reject).Methods("PUT")
}
