package notification

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Handler exposes the notification ring over HTTP.
type Handler struct {
	manager *Manager
}

// NewHandler creates a handler over a manager.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes registers the notification routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/notifications", h.handleList)
	mux.HandleFunc("/api/notifications/clear", h.handleClear)
	mux.HandleFunc("/api/notifications/", h.handleActions)
}

func cors(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// handleList serves GET /api/notifications, optionally filtered by ?type=.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET, OPTIONS") {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var notifications []Notification
	if t := r.URL.Query().Get("type"); t != "" {
		notifications = h.manager.ByType(Type(t))
	} else {
		notifications = h.manager.All()
	}
	if notifications == nil {
		notifications = []Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

// handleActions serves POST /api/notifications/{id}/read.
func (h *Handler) handleActions(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST, OPTIONS") {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/notifications/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[1] != "read" || r.Method != http.MethodPost {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !h.manager.MarkAsRead(parts[0]) {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Notification marked as read", "id": parts[0]})
}

// handleClear serves POST /api/notifications/clear.
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST, OPTIONS") {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.manager.Clear()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Notifications cleared"})
}
