// Package api exposes the HTTP surface: the authenticated game WebSocket
// endpoint plus read-only board and room resources.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/LilConsul/actPoly-monopoly/auth"
	"github.com/LilConsul/actPoly-monopoly/game/board"
	"github.com/LilConsul/actPoly-monopoly/game/session"
	ws "github.com/LilConsul/actPoly-monopoly/transport/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Server routes HTTP traffic to the session core.
type Server struct {
	coordinator *session.Coordinator
	hub         *ws.Hub
	boards      *board.Manager
	tokens      *auth.TokenService
	router      *mux.Router
}

func NewServer(coordinator *session.Coordinator, hub *ws.Hub, boards *board.Manager, tokens *auth.TokenService) *Server {
	s := &Server{
		coordinator: coordinator,
		hub:         hub,
		boards:      boards,
		tokens:      tokens,
		router:      mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/board", s.handleGetBoard).Methods("GET")
	api.HandleFunc("/boards", s.handleListBoards).Methods("GET")
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{id}", s.handleGetRoom).Methods("GET")

	s.router.HandleFunc("/ws/game/{id}", s.handleGameSocket)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	layout := s.boards.Default()
	if name := r.URL.Query().Get("name"); name != "" {
		var err error
		layout, err = s.boards.Load(name)
		if err != nil {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
	}
	respondJSON(w, http.StatusOK, layout)
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	names, err := s.boards.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(names),
		"boards": names,
	})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.coordinator.ListRooms()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	info, err := s.coordinator.RoomInfo(roomID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// handleGameSocket authenticates the bearer credential and upgrades the
// connection. An invalid or missing credential is refused with 403 before the
// session core is ever invoked.
func (s *Server) handleGameSocket(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	token, err := auth.TokenFromRequest(r)
	if err != nil {
		http.Error(w, "missing or malformed credential", http.StatusForbidden)
		return
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		log.Printf("api: rejected connection to room %s: %v", roomID, err)
		http.Error(w, "invalid credential", http.StatusForbidden)
		return
	}

	ws.ServeWS(s.hub, s.coordinator, w, r, roomID, userID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
