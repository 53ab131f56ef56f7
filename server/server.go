package main

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"
)

const (
	defaultRoundsLimit = 20
	maxRoundsLimit     = 200
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

type tokenRequest struct {
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type healthResponse struct {
	OK      bool    `json:"ok"`
	Clients int     `json:"clients"`
	Rounds  int     `json:"rounds"`
	WinRate float64 `json:"winRate"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, db *DB) *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warn().Err(err).Str("ip", ip).Msg("upgrade")
			return
		}

		client := NewClient(hub, conn, ip)
		if !hub.Register(client) {
			conn.Close()
			return
		}
		hub.TrackConnect(ip)

		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("POST /api/token", func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorMsg{Msg: "bad request"})
			return
		}
		token, err := hub.auth.IssueToken(req.Password, extractIP(r))
		switch {
		case errors.Is(err, ErrRateLimited):
			writeJSON(w, http.StatusTooManyRequests, ErrorMsg{Msg: err.Error()})
		case errors.Is(err, ErrBadPassword), errors.Is(err, ErrNoPassword):
			writeJSON(w, http.StatusUnauthorized, ErrorMsg{Msg: err.Error()})
		case err != nil:
			hub.log.Error().Err(err).Msg("issuing token")
			writeJSON(w, http.StatusInternalServerError, ErrorMsg{Msg: "internal error"})
		default:
			writeJSON(w, http.StatusOK, tokenResponse{Token: token})
		}
	})

	mux.HandleFunc("GET /api/rounds", func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRoundsLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				writeJSON(w, http.StatusBadRequest, ErrorMsg{Msg: "limit must be a positive integer"})
				return
			}
			limit = min(n, maxRoundsLimit)
		}
		rounds, err := db.RecentRounds(limit)
		if err != nil {
			hub.log.Error().Err(err).Msg("listing rounds")
			writeJSON(w, http.StatusInternalServerError, ErrorMsg{Msg: "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, rounds)
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		rate, total, err := db.WinRate()
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, ErrorMsg{Msg: "database unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{
			OK:      true,
			Clients: hub.ClientCount(),
			Rounds:  total,
			WinRate: rate,
		})
	})

	return mux
}
