// Package calctest provides an in-process stand-in for the calculation
// service, for tests that exercise the client end to end.
package calctest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lux-resonans/pkg/models"
)

// Responder decides the status and JSON body for one request. A nil body
// sends no content; a []byte body is written verbatim.
type Responder func(r *http.Request, req models.SimulationRequest) (status int, body any)

// Call is one recorded request.
type Call struct {
	Request   models.SimulationRequest
	RequestID string
	UserAgent string
}

// Server is a fake calculation service.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	respond Responder
	calls   []Call
}

// NewServer starts a fake service answering with respond.
func NewServer(respond Responder) *Server {
	s := &Server{respond: respond}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/calculate_pattern", s.handlePattern)

	s.Server = httptest.NewServer(r)
	return s
}

// SetResponder swaps the responder for subsequent requests.
func (s *Server) SetResponder(respond Responder) {
	s.mu.Lock()
	s.respond = respond
	s.mu.Unlock()
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *Server) handlePattern(w http.ResponseWriter, r *http.Request) {
	var req models.SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorBody{Error: "Invalid input. Please ensure all values are numbers."})
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Request:   req,
		RequestID: r.Header.Get("X-Request-ID"),
		UserAgent: r.Header.Get("User-Agent"),
	})
	respond := s.respond
	s.mu.Unlock()

	status, body := respond(r, req)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	if raw, ok := body.([]byte); ok {
		w.WriteHeader(status)
		_, _ = w.Write(raw)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Pattern always answers 200 with result.
func Pattern(result models.SimulationResult) Responder {
	return func(*http.Request, models.SimulationRequest) (int, any) {
		return http.StatusOK, result
	}
}

// Fail answers status with {"error": message}, or an empty object when
// message is "".
func Fail(status int, message string) Responder {
	return func(*http.Request, models.SimulationRequest) (int, any) {
		return status, models.ErrorBody{Error: message}
	}
}

// Raw answers status with body verbatim.
func Raw(status int, body string) Responder {
	return func(*http.Request, models.SimulationRequest) (int, any) {
		return status, []byte(body)
	}
}

// ThreePoints is the small symmetric pattern used across tests.
var ThreePoints = models.SimulationResult{
	ScreenPositionsMM: []float64{-5, 0, 5},
	Intensity:         []float64{0.1, 1.0, 0.1},
	PlotColor:         "rgb(0,255,0)",
}
