// Package dumpserver serves an already-decompiled *decompunit.Result over
// HTTP, grounded on the teacher's api/server.go ServeMux + graceful
// shutdown pattern. It never mutates the Result it was constructed with.
package dumpserver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethteck/mips-to-c/decompunit"
)

// Server serves one decompunit.Result's functions as JSON.
type Server struct {
	result *decompunit.Result
	mux    *http.ServeMux
	server *http.Server
	addr   string
}

// New builds a Server over result bound to addr (e.g. "127.0.0.1:8080").
func New(addr string, result *decompunit.Result) *Server {
	s := &Server{result: result, mux: http.NewServeMux(), addr: addr}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/functions", s.handleFunctions)
	s.mux.HandleFunc("/functions/", s.handleFunction)
	s.mux.HandleFunc("/functions/{name}/cfg", func(w http.ResponseWriter, r *http.Request) {
		s.handleSubResource(w, r, "/cfg", (*decompunit.Function).CFGJSON)
	})
	s.mux.HandleFunc("/functions/{name}/frame", func(w http.ResponseWriter, r *http.Request) {
		s.handleSubResource(w, r, "/frame", (*decompunit.Function).FrameJSON)
	})
	s.mux.HandleFunc("/functions/{name}/lift", func(w http.ResponseWriter, r *http.Request) {
		s.handleSubResource(w, r, "/lift", (*decompunit.Function).LiftJSON)
	})
}

// handleSubResource serves one facet of a decompunit.Function (its CFG,
// frame, or lift trace) at /functions/{key}/<suffix>, rather than the
// bundled RenderJSON combination handleFunction returns.
func (s *Server) handleSubResource(w http.ResponseWriter, r *http.Request, suffix string, render func(*decompunit.Function) ([]byte, error)) {
	key := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/functions/"), suffix)

	fn := s.lookup(key)
	if fn == nil {
		http.NotFound(w, r)
		return
	}

	data, err := render(fn)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleFunctions(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(s.result.Functions))
	for _, fn := range s.result.Functions {
		names = append(names, fn.Name)
	}
	writeJSON(w, names)
}

func (s *Server) handleFunction(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/functions/")

	fn := s.lookup(key)
	if fn == nil {
		http.NotFound(w, r)
		return
	}

	data, err := fn.RenderJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// lookup resolves key as either a function index or a function name.
func (s *Server) lookup(key string) *decompunit.Function {
	if idx, err := strconv.Atoi(key); err == nil {
		if idx < 0 || idx >= len(s.result.Functions) {
			return nil
		}
		return s.result.Functions[idx]
	}
	for _, fn := range s.result.Functions {
		if fn.Name == key {
			return fn
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Start runs the server until Shutdown is called or ListenAndServe fails.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("dump server starting on http://%s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
