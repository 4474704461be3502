// Package server exposes a running simulation over HTTP and streams
// per-tick snapshots over a websocket.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/elektrokombinacija/gridnav/internal/core"
	"github.com/elektrokombinacija/gridnav/internal/sim"
)

const (
	URI_LAYOUT   = "/layout"
	URI_SNAPSHOT = "/snapshot"
	URI_START    = "/start/:strategy"
	URI_STREAM   = "/stream"
)

const writeTimeout = 2 * time.Second

// Server serves one simulation.
type Server struct {
	router   *way.Router
	sim      *sim.Simulator
	layout   *core.Layout
	upgrader *websocket.Upgrader
}

// New creates a server for s.
func New(s *sim.Simulator, l *core.Layout) *Server {
	srv := &Server{
		sim:      s,
		layout:   l,
		upgrader: &websocket.Upgrader{},
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URI_LAYOUT, s.handleLayout())
	s.router.HandleFunc("GET", URI_SNAPSHOT, s.handleSnapshot())
	s.router.HandleFunc("POST", URI_START, s.handleStart())
	s.router.HandleFunc("GET", URI_STREAM, s.handleStream())
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleLayout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.layout)
	}
}

func (s *Server) handleSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.sim.Snapshot())
	}
}

func (s *Server) handleStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := way.Param(r.Context(), "strategy")
		st, err := core.ParseStrategy(name)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorBody(err))
			return
		}
		if err := s.sim.Start(st); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, sim.ErrUnknownStrategy) {
				status = http.StatusNotFound
			}
			writeJSON(w, status, errorBody(err))
			return
		}
		log.Infof("start %v requested by %s", st, r.RemoteAddr)
		writeJSON(w, http.StatusOK, map[string]string{"started": st.String()})
	}
}

func (s *Server) handleStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := uuid.NewString()
		logger := log.WithField("session", session)

		con, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warnf("websocket upgrade err %v", err)
			return
		}
		defer con.Close()

		updates := s.sim.Subscribe()
		defer s.sim.Unsubscribe(updates)

		// Reader goroutine only detects the client going away.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := con.ReadMessage(); err != nil {
					return
				}
			}
		}()

		logger.Info("stream opened")
		initial := s.sim.Snapshot()
		if err := send(con, initial); err != nil {
			logger.Warnf("initial send err %v", err)
			return
		}
		if initial.Done {
			closeDone(con, logger)
			return
		}

		for {
			select {
			case <-gone:
				logger.Info("stream closed by client")
				return
			case <-r.Context().Done():
				return
			case snap, ok := <-updates:
				if !ok {
					return
				}
				if err := send(con, snap); err != nil {
					logger.Warnf("send err %v", err)
					return
				}
				if snap.Done {
					closeDone(con, logger)
					return
				}
			}
		}
	}
}

// closeDone tells the client the simulation has finished.
func closeDone(con *websocket.Conn, logger *log.Entry) {
	logger.Info("simulation done, closing stream")
	_ = con.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(writeTimeout))
}

func send(con *websocket.Conn, snap sim.Snapshot) error {
	if err := con.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return con.WriteJSON(snap)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encode response: %v", err)
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
