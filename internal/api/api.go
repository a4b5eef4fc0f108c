// Package api exposes a read-only debug/introspection surface over a
// running *kernel.Kernel: task-table snapshots, a notify endpoint for
// manual POST injection, and a websocket stream of state transitions.
// It plays the role lxd/api.go plays for the LXD daemon — a thin REST
// layer over state the core package already owns — built on
// github.com/go-chi/chi/v5 rather than gorilla/mux, since this module's one
// plain {index} path parameter needs none of mux's regexp routing.
package api

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Guiguiprim/hubris/internal/kernel"
)

// Server wires a *kernel.Kernel into an http.Handler. It owns no kernel
// state itself; every request re-reads the kernel's current Snapshot.
type Server struct {
	k   *kernel.Kernel
	log logrus.FieldLogger

	upgrader websocket.Upgrader

	subs   map[chan []kernel.Snapshot]struct{}
	subsMu sync.Mutex

	pollInterval time.Duration
	stop         chan struct{}
}

// New builds a Server over k. Call Router to obtain the http.Handler and
// StreamTransitions (in its own goroutine) to start the websocket feed.
func New(k *kernel.Kernel, log logrus.FieldLogger) *Server {
	return &Server{
		k:            k,
		log:          log,
		upgrader:     websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		subs:         make(map[chan []kernel.Snapshot]struct{}),
		pollInterval: 50 * time.Millisecond,
		stop:         make(chan struct{}),
	}
}

// Router builds the chi.Router exposing the debug endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/tasks", s.handleListTasks)
	r.Get("/tasks/{index}", s.handleGetTask)
	r.Post("/tasks/{index}/notify", s.handleNotify)
	r.Get("/ws", s.handleWebsocket)

	return r
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.k.Snapshot())
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	idx, err := parseIndex(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for _, snap := range s.k.Snapshot() {
		if snap.Id.Index == idx {
			writeJSON(w, http.StatusOK, snap)
			return
		}
	}

	http.Error(w, "task index out of range", http.StatusNotFound)
}

type notifyRequest struct {
	Bits uint32 `json:"bits"`
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	idx, err := parseIndex(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	s.k.Post(idx, req.Bits)
	s.log.WithFields(logrus.Fields{"task": idx, "bits": req.Bits}).Debug("debug API injected POST")

	w.WriteHeader(http.StatusAccepted)
}

// handleWebsocket upgrades the connection and streams every state-table
// diff detected by the background poll loop until the client disconnects.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ch := make(chan []kernel.Snapshot, 8)
	s.subsMu.Lock()
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()

	defer func() {
		s.subsMu.Lock()
		delete(s.subs, ch)
		s.subsMu.Unlock()
	}()

	for snap := range ch {
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}
}

// StreamTransitions polls the kernel's task table and fans out a snapshot
// to every connected websocket client whenever it changes, until ctx-style
// Stop is called. Run it in its own goroutine from the serve command, the
// way lxd's event listener runs alongside its REST server.
func (s *Server) StreamTransitions() {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var last []kernel.Snapshot

	for {
		select {
		case <-ticker.C:
			cur := s.k.Snapshot()
			if snapshotsEqual(last, cur) {
				continue
			}
			last = cur

			s.subsMu.Lock()
			for ch := range s.subs {
				select {
				case ch <- cur:
				default: // slow client; drop this tick rather than block the poll loop
				}
			}
			s.subsMu.Unlock()
		case <-s.stop:
			return
		}
	}
}

// Stop halts StreamTransitions and closes every subscriber channel.
func (s *Server) Stop() {
	close(s.stop)

	s.subsMu.Lock()
	for ch := range s.subs {
		close(ch)
	}
	s.subsMu.Unlock()
}

func snapshotsEqual(a, b []kernel.Snapshot) bool {
	return reflect.DeepEqual(a, b)
}

func parseIndex(raw string) (uint16, error) {
	n, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, err
	}

	return uint16(n), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
