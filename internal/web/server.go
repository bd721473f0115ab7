// Package web serves the analysis dashboard: a read-only JSON API over the
// loaded corpus plus a websocket stream of per-canticum progress events.
// The server analyzes in the background after startup; API requests that
// arrive before the summary is ready get a "pending" error, and websocket
// clients see each canticum as it completes.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/strophic/responsion/core/accent"
	"github.com/strophic/responsion/core/responsion"
	"github.com/strophic/responsion/core/stats"
	"github.com/strophic/responsion/core/verse"
	"github.com/strophic/responsion/internal/logging"
	"github.com/strophic/responsion/internal/report"
)

// Config holds the server settings.
type Config struct {
	Host      string
	Port      int
	Reference float64 // significance reference proportion; 0 means the default
	Workers   int     // significance worker pool bound; 0 means the default
}

// Response is the JSON envelope every API handler writes.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError carries a machine-readable code alongside the message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta stamps each response.
type Meta struct {
	Timestamp string `json:"timestamp"`
}

// CanticumInfo is one canticum's shape in the play listing.
type CanticumInfo struct {
	Responsion   string `json:"responsion"`
	Strophes     int    `json:"strophes"`
	Lines        int    `json:"lines"`
	Polystrophic bool   `json:"polystrophic"`
}

// PlayInfo is one play in the /api/plays listing.
type PlayInfo struct {
	Infix   string         `json:"infix"`
	Title   string         `json:"title,omitempty"`
	Cantica []CanticumInfo `json:"cantica"`
}

// CanticumDetail is the /api/cantica/{id} payload: the analysis result plus
// the canticum's significance status from the summary.
type CanticumDetail struct {
	Result *responsion.CanticumResult `json:"result"`
	Status *report.CanticumStatus     `json:"status,omitempty"`
}

// Server holds the loaded corpus and its analysis.
type Server struct {
	plays   []*verse.Play
	hub     *Hub
	tester  *stats.Tester
	workers int

	mu      sync.RWMutex
	result  *responsion.Result
	summary *report.Summary
}

// New creates a server over the loaded plays. Analysis has not run yet;
// call Analyze (Start does, on a goroutine) to populate the API.
func New(plays []*verse.Play, cfg Config) *Server {
	return &Server{
		plays:   plays,
		hub:     NewHub(),
		tester:  stats.NewTester(cfg.Reference),
		workers: cfg.Workers,
	}
}

// Hub exposes the progress hub so batch drivers can broadcast through it.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Analyze runs the corpus analysis, broadcasting a canticum event as each
// canticum finishes, and stores the result and summary for the API.
func (s *Server) Analyze() error {
	total := len(verse.AllCantica(s.plays...))
	done := 0

	res := &responsion.Result{}
	for _, p := range s.plays {
		pr := &responsion.PlayResult{
			Infix:      p.Infix,
			Title:      p.Title,
			Accents:    verse.CountAccents(p),
			Potentials: responsion.CountPotentials(p),
			Syllables:  verse.CountSyllables(p),
		}
		for _, c := range p.Cantica() {
			cr := responsion.AnalyzeCanticum(c)
			cr.Infix = p.Infix
			pr.Cantica = append(pr.Cantica, cr)
			done++
			s.hub.Broadcast(Event{
				Type:       "canticum",
				Responsion: cr.Responsion,
				Infix:      cr.Infix,
				Done:       done,
				Total:      total,
				Matched:    cr.AcuteCircumflexMatched(),
				Universe:   cr.Accents[accent.Acute] + cr.Accents[accent.Circumflex],
				Skipped:    cr.Skipped,
				Message:    cr.SkipReason,
			})
		}
		res.Plays = append(res.Plays, pr)
	}

	sum, err := report.Summarize(res, s.tester, s.workers)
	if err != nil {
		s.hub.Broadcast(Event{Type: "error", Message: err.Error()})
		return err
	}

	s.mu.Lock()
	s.result = res
	s.summary = sum
	s.mu.Unlock()

	s.hub.Broadcast(Event{
		Type:     "complete",
		Done:     done,
		Total:    total,
		Matched:  sum.MatchedAcuteCircumflex(),
		Universe: sum.UniverseAcuteCircumflex(),
	})
	return nil
}

// Routes builds the API mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/plays", s.handlePlays)
	mux.HandleFunc("/api/cantica/", s.handleCanticumByID)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/ws", s.hub.handleWebSocket)
	return mux
}

// Start runs the hub, kicks off the analysis and serves until the listener
// fails.
func (s *Server) Start(cfg Config) error {
	go s.hub.Run()
	go func() {
		if err := s.Analyze(); err != nil {
			logging.Error("corpus analysis failed", "error", err)
		}
	}()

	logging.ServerStartup("dashboard", "http", cfg.Port,
		"plays", len(s.plays), "websocket_protocol", "ws")

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return http.ListenAndServe(addr, logging.CombinedMiddleware(s.Routes()))
}

func (s *Server) handlePlays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET only")
		return
	}

	out := make([]PlayInfo, 0, len(s.plays))
	for _, p := range s.plays {
		info := PlayInfo{Infix: p.Infix, Title: p.Title}
		for _, c := range p.Cantica() {
			info.Cantica = append(info.Cantica, CanticumInfo{
				Responsion:   c.Responsion,
				Strophes:     len(c.Strophes),
				Lines:        c.Lines(),
				Polystrophic: c.Polystrophic(),
			})
		}
		out = append(out, info)
	}
	respond(w, http.StatusOK, out)
}

func (s *Server) handleCanticumByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET only")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/cantica/")
	if id == "" || strings.Contains(id, "/") {
		respondError(w, http.StatusBadRequest, "bad_request", "canticum id required")
		return
	}

	s.mu.RLock()
	res, sum := s.result, s.summary
	s.mu.RUnlock()
	if res == nil {
		respondError(w, http.StatusServiceUnavailable, "pending", "analysis still running")
		return
	}

	for _, cr := range res.Cantica() {
		if cr.Responsion != id {
			continue
		}
		detail := CanticumDetail{Result: cr}
		for i := range sum.Cantica {
			if sum.Cantica[i].Responsion == id {
				detail.Status = &sum.Cantica[i]
				break
			}
		}
		respond(w, http.StatusOK, detail)
		return
	}
	respondError(w, http.StatusNotFound, "not_found", "unknown canticum "+id)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET only")
		return
	}

	s.mu.RLock()
	sum := s.summary
	s.mu.RUnlock()
	if sum == nil {
		respondError(w, http.StatusServiceUnavailable, "pending", "analysis still running")
		return
	}
	respond(w, http.StatusOK, sum)
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	response := Response{
		Success: true,
		Data:    data,
		Meta:    &Meta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := Response{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
		Meta:    &Meta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
