package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ysh86/pngme/commands"
	"github.com/ysh86/pngme/internal/logger"
	"github.com/ysh86/pngme/message"
	"github.com/ysh86/pngme/png"
)

// MaxBodySize limits uploaded images.
const MaxBodySize = 32 << 20

// Server handles HTTP requests on uploaded PNG files
type Server struct{}

// New creates a new API server
func New() *Server {
	return &Server{}
}

// Router returns the routes of the server
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Get("/health", s.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("image/png", "application/octet-stream"))
		r.Post("/encode", s.Encode)
		r.Post("/decode", s.Decode)
		r.Post("/remove", s.Remove)
		r.Post("/chunks", s.Chunks)
	})

	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Log("starting pngme server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Log("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// DecodeResponse is the response for decoding a message
type DecodeResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ChunkResponse describes one chunk
type ChunkResponse struct {
	Type        string `json:"type"`
	Length      uint32 `json:"length"`
	CRC         uint32 `json:"crc"`
	Critical    bool   `json:"critical"`
	Public      bool   `json:"public"`
	SafeToCopy  bool   `json:"safeToCopy"`
	Description string `json:"description,omitempty"`
}

// HealthCheck handles GET /health
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// Encode handles POST /api/encode?type=T&message=M[&compress=1]
func (s *Server) Encode(w http.ResponseWriter, r *http.Request) {
	f, ok := readFile(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	compress, _ := strconv.ParseBool(query.Get("compress"))
	data := message.Pack([]byte(query.Get("message")), compress)
	if _, err := commands.Embed(f, query.Get("type"), data); err != nil {
		writeError(w, err)
		return
	}

	writePNG(w, f)
}

// Decode handles POST /api/decode?type=T
func (s *Server) Decode(w http.ResponseWriter, r *http.Request) {
	f, ok := readFile(w, r)
	if !ok {
		return
	}

	t := r.URL.Query().Get("type")
	c, found := f.ChunkByType(t)
	if !found {
		writeError(w, &png.NotFoundError{Type: t})
		return
	}
	msg, err := commands.Reveal(c)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, DecodeResponse{Type: t, Message: msg})
}

// Remove handles POST /api/remove?type=T
func (s *Server) Remove(w http.ResponseWriter, r *http.Request) {
	f, ok := readFile(w, r)
	if !ok {
		return
	}

	if _, err := f.RemoveChunk(r.URL.Query().Get("type")); err != nil {
		writeError(w, err)
		return
	}

	writePNG(w, f)
}

// Chunks handles POST /api/chunks
func (s *Server) Chunks(w http.ResponseWriter, r *http.Request) {
	f, ok := readFile(w, r)
	if !ok {
		return
	}

	chunks := make([]ChunkResponse, 0, len(f.Chunks()))
	for _, c := range f.Chunks() {
		t := c.Type()
		chunks = append(chunks, ChunkResponse{
			Type:        t.String(),
			Length:      c.Length(),
			CRC:         c.CRC(),
			Critical:    t.IsCritical(),
			Public:      t.IsPublic(),
			SafeToCopy:  t.IsSafeToCopy(),
			Description: c.Describe(),
		})
	}

	writeJSON(w, map[string]interface{}{
		"chunks": chunks,
		"count":  len(chunks),
	})
}

func readFile(w http.ResponseWriter, r *http.Request) (*png.File, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, fmt.Sprintf("reading body: %v", err), status)
		return nil, false
	}

	f, err := png.Parse(body)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return f, true
}

func writeError(w http.ResponseWriter, err error) {
	var fe *png.FormatError
	var nf *png.NotFoundError
	switch {
	case errors.As(err, &nf):
		http.Error(w, nf.Error(), http.StatusNotFound)
	case errors.As(err, &fe):
		http.Error(w, fe.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	}
}

func writePNG(w http.ResponseWriter, f *png.File) {
	w.Header().Set("Content-Type", "image/png")
	w.Write(f.Bytes())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
