// handlers/session.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"questpath/middleware"
	"questpath/models"
	"questpath/progression"
	"questpath/session"
	"questpath/views"
)

const (
	socketWriteWait  = 10 * time.Second
	socketPongWait   = 60 * time.Second
	socketPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	HandshakeTimeout: socketWriteWait,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
}

// SessionState is the JSON view of a session store shared by the
// session API and the live socket.
type SessionState struct {
	State       session.State      `json:"state"`
	User        *models.User       `json:"user,omitempty"`
	DisplayName string             `json:"display_name,omitempty"`
	Level       *progression.Level `json:"level,omitempty"`
}

func sessionState(ev session.Event) SessionState {
	out := SessionState{State: ev.State}
	if ev.State == session.StateAuthenticated && ev.User != nil {
		lvl := ev.XPProgress()
		out.User = ev.User
		out.DisplayName = views.DisplayName(ev.User)
		out.Level = &lvl
	}
	return out
}

// SessionAPI reports the session's auth state as JSON. It waits up to
// wait for a loading store, and may still answer "loading".
func SessionAPI(wait time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := SessionState{State: session.StateAnonymous}
		if st := middleware.Store(r.Context()); st != nil {
			st.Resolve(r.Context(), wait)
			state = sessionState(st.Snapshot())
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(state); err != nil {
			slog.Warn("session state encode failed", slog.String("error", err.Error()))
		}
	}
}

// SessionSocket pushes every change of the session store to an open
// page so it can re-run its guard without reloading.
func SessionSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := middleware.Store(r.Context())
		if st == nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Debug("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}
		defer conn.Close()

		events, cancel := st.Subscribe()
		defer cancel()

		if err := writeState(conn, sessionState(st.Snapshot())); err != nil {
			return
		}

		// The client never sends anything; reading only surfaces the close
		// and keeps the pong deadline moving.
		conn.SetReadDeadline(time.Now().Add(socketPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(socketPongWait))
		})
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(socketPingPeriod)
		defer ping.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session replaced"),
						time.Now().Add(socketWriteWait))
					return
				}
				if err := writeState(conn, sessionState(ev)); err != nil {
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(socketWriteWait)); err != nil {
					return
				}
			case <-closed:
				return
			}
		}
	}
}

func writeState(conn *websocket.Conn, state SessionState) error {
	conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
	return conn.WriteJSON(state)
}
