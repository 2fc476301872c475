package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		log.Printf("❌ Failed to write health response: %v", err)
	}
}

func SetupHealthEndpoint(router *mux.Router) {
	router.HandleFunc("/health", HandleHealth).Methods("GET")
	log.Printf("✅ GET /health endpoint registered")
}
