package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Saved stocks
	api.HandleFunc("/stocks", handler.GetStocks).Methods("GET")
	api.HandleFunc("/stocks", handler.AddStock).Methods("POST")
	api.HandleFunc("/stocks/{symbol}", handler.RemoveStock).Methods("DELETE")
	api.HandleFunc("/stocks/{symbol}/profile", handler.GetProfile).Methods("GET")

	// Notification rules
	api.HandleFunc("/stocks/{symbol}/notification", handler.SetNotification).Methods("PUT")
	api.HandleFunc("/stocks/{symbol}/notification", handler.ClearNotification).Methods("DELETE")

	// Notification email
	api.HandleFunc("/email", handler.SetEmail).Methods("PUT")
	api.HandleFunc("/email", handler.ClearEmail).Methods("DELETE")

	// Symbol search
	api.HandleFunc("/search", handler.StartSearch).Methods("POST")
	api.HandleFunc("/search/results", handler.SearchResults).Methods("GET")

	return r
}
