package nasladmin

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nasl-runtime/naslrun/internal/naslfeed"
	"github.com/nasl-runtime/naslrun/internal/naslrewrite"
	"github.com/nasl-runtime/naslrun/internal/nasllog"
)

// UpdateFactory builds a fresh Update run over the configured feed
// root, mirroring the constructor the CLI's "update" command drives.
type UpdateFactory func() (*naslfeed.Update, error)

// FeedVersionFunc reports the currently published feed version without
// running the whole pipeline (SPEC_FULL's "/status reports ... without
// re-running the whole pipeline").
type FeedVersionFunc func() (string, error)

// Server is the admin HTTP server: status, trigger-update,
// trigger-transpile, and a live progress websocket, gated by bearer
// auth on every mutating route.
type Server struct {
	router  chi.Router
	auth    *AuthService
	hub     *ProgressHub
	logger  nasllog.Logger
	newFeed UpdateFactory
	version FeedVersionFunc

	mu      sync.Mutex
	running bool
}

// NewServer wires the chi router the way the teacher's
// internal/web/router builds its mux, with auth and the progress hub
// composed in rather than copied per-route.
func NewServer(auth *AuthService, newFeed UpdateFactory, version FeedVersionFunc, logger nasllog.Logger) *Server {
	if logger == nil {
		logger = nasllog.NoOp()
	}
	s := &Server{
		auth:    auth,
		hub:     NewProgressHub(),
		logger:  logger,
		newFeed: newFeed,
		version: version,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/status", s.handleStatus)

	r.Group(func(protected chi.Router) {
		protected.Use(RequireAuth(auth))
		protected.Get("/progress", s.hub.ServeHTTP)
		protected.Post("/update", s.handleUpdate)
		protected.Post("/transpile", s.handleTranspile)
	})

	s.router = r
	return s
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

type statusResponse struct {
	FeedVersion string `json:"feed_version"`
	Running     bool   `json:"update_running"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	version, err := s.version()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, statusResponse{FeedVersion: version, Running: running})
}

type updateResponse struct {
	Started bool `json:"started"`
}

// handleUpdate kicks off an Update run in the background, streaming
// each Result to /progress as it happens, and returns immediately —
// the client follows along over the websocket rather than blocking the
// HTTP request for the whole feed.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		writeJSON(w, http.StatusConflict, updateResponse{Started: false})
		return
	}
	s.running = true
	s.mu.Unlock()

	update, err := s.newFeed()
	if err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	go func() {
		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()
		for {
			result, ok := update.Next()
			if !ok {
				break
			}
			s.hub.Broadcast(EventFromResult(result))
		}
		s.hub.Broadcast(ProgressEvent{Done: true})
	}()

	writeJSON(w, http.StatusAccepted, updateResponse{Started: true})
}

type transpileResponse struct {
	ChangedFiles []string `json:"changed_files"`
}

// handleTranspile decodes the posted commands document and runs the
// feed rewriter synchronously, writing every changed file back to disk
// and reporting their paths.
func (s *Server) handleTranspile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Root         string `json:"root"`
		CommandsYAML string `json:"commands_yaml"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	commands, err := naslrewrite.DecodeCommands([]byte(req.CommandsYAML))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	replacer := naslrewrite.NewFeedReplacer(req.Root, commands)
	changed, err := replacer.Run()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	paths := make([]string, 0, len(changed))
	for _, f := range changed {
		if err := os.WriteFile(f.Path, []byte(f.Source), 0o644); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		paths = append(paths, f.Path)
	}

	writeJSON(w, http.StatusOK, transpileResponse{ChangedFiles: paths})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
