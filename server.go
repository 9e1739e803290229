package main

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	leaderboardDefault = 20
	leaderboardMax     = 100
	statsDays          = 7
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, cfg *Config) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, w, r)
	})

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		serveLeaderboard(hub, w, r)
	}).Methods(http.MethodGet)
	api.HandleFunc("/catalog", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, StoreCatalog)
	}).Methods(http.MethodGet)
	api.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		serveStats(hub, w, r)
	}).Methods(http.MethodGet)
	api.HandleFunc("/qr", func(w http.ResponseWriter, r *http.Request) {
		serveResumeQR(hub, cfg.PublicURL, w, r)
	}).Methods(http.MethodGet)

	// Serve static files with no-cache so browsers always revalidate
	fs := http.FileServer(http.Dir(cfg.ClientDir))
	r.PathPrefix("/").Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		if r.URL.Path == "/" {
			http.ServeFile(w, r, filepath.Join(cfg.ClientDir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	}))

	return r
}

// serveWS upgrades the connection and gives it its own game session
func serveWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	ip := extractIP(r)
	if !hub.CanAccept(ip) {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade error: %v", err)
		return
	}

	client := NewClient(hub, conn, ip)
	if err := hub.Attach(client); err != nil {
		log.Printf("reject %s: %v", ip, err)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()))
		conn.Close()
		return
	}
	hub.TrackConnect(ip)
	hub.register <- client

	client.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
		Session: client.session.ID,
		Name:    client.name,
	}})
	client.session.Game.ShowMenu()

	go client.WritePump()
	go client.ReadPump()
}

func serveLeaderboard(hub *Hub, w http.ResponseWriter, r *http.Request) {
	if hub.db == nil {
		writeJSON(w, http.StatusOK, []LeaderboardEntry{})
		return
	}
	limit := leaderboardDefault
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = min(n, leaderboardMax)
	}
	entries, err := hub.db.GetLeaderboard(limit)
	if err != nil {
		log.Printf("leaderboard: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type statsResponse struct {
	ActiveSessions int             `json:"active_sessions"`
	Events         map[string]int  `json:"events"`
	Runs           RunAnalytics    `json:"runs"`
	Purchases      []ItemAnalytics `json:"purchases"`
}

func serveStats(hub *Hub, w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{ActiveSessions: hub.sessions.Count()}
	if hub.analytics != nil {
		resp.ActiveSessions = hub.analytics.ActiveSessions()
		var err error
		if resp.Events, err = hub.analytics.EventCounts(statsDays); err != nil {
			log.Printf("stats events: %v", err)
		}
		if resp.Runs, err = hub.analytics.RunStats(statsDays); err != nil {
			log.Printf("stats runs: %v", err)
		}
		if resp.Purchases, err = hub.analytics.PopularPurchases(10); err != nil {
			log.Printf("stats purchases: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
