package mockserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/medwear/internal/adapters/fixture"
)

const maxBody = 1 << 20

// Server exposes a fixture backend over HTTP under /api/.
type Server struct {
	mux     *http.ServeMux
	backend *fixture.Backend
}

func New(b *fixture.Backend) http.Handler {
	s := &Server{mux: http.NewServeMux(), backend: b}
	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/", s.handleAPI)
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Could not read request body"})
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Malformed JSON body"})
		return
	}

	req := fixture.Request{
		Method: r.Method,
		Path:   strings.TrimPrefix(r.URL.Path, "/api"),
		Query:  r.URL.Query(),
		Body:   body,
		Token:  bearer(r),
	}
	status, payload := s.backend.Handle(r.Context(), req)
	if status >= http.StatusInternalServerError {
		log.Error().Str("path", r.URL.Path).Int("status", status).Interface("payload", payload).Msg("fixture failure")
	}
	writeJSON(w, status, payload)
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
