// Package server exposes the chat, assessment and dashboard API over
// HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ayeco/segnalago/config"
	"github.com/ayeco/segnalago/internal/assessment"
	"github.com/ayeco/segnalago/internal/assessor"
	"github.com/ayeco/segnalago/internal/attachment"
	"github.com/ayeco/segnalago/internal/chat"
	"github.com/ayeco/segnalago/internal/dashboard"
	"github.com/ayeco/segnalago/internal/report"
	"github.com/ayeco/segnalago/internal/storage/sqlite"
	"github.com/ayeco/segnalago/internal/vlm"
)

const maxUploadBytes = 16 << 20

// Server routes citizen requests to the chat session registry and the
// risk assessor.
type Server struct {
	cfg   *config.Config
	store *sqlite.Store

	modelMu sync.RWMutex
	model   vlm.Generator

	mu       sync.Mutex
	sessions map[string]*chatSession
}

// chatSession serializes access to one citizen's session. A chat.Session
// is single-user and not safe for concurrent use, so the handler must
// hold mu across the whole append-and-reply turn.
type chatSession struct {
	mu   sync.Mutex
	sess *chat.Session
}

// New builds a server. store may be nil when transcript recording is
// disabled.
func New(cfg *config.Config, model vlm.Generator, store *sqlite.Store) *Server {
	return &Server{
		cfg:      cfg,
		model:    model,
		store:    store,
		sessions: make(map[string]*chatSession),
	}
}

// Model returns the generator currently serving new sessions and
// assessments.
func (s *Server) Model() vlm.Generator {
	s.modelMu.RLock()
	defer s.modelMu.RUnlock()
	return s.model
}

// SetModel swaps the generator, e.g. after a config reload. Sessions
// already in flight keep the generator they were created with.
func (s *Server) SetModel(model vlm.Generator) {
	s.modelMu.Lock()
	s.model = model
	s.modelMu.Unlock()
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.ServerAddr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	log.Printf("[INFO] segnalago server starting on %s", s.cfg.ServerAddr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Handler exposes the routed mux without binding a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/assess", s.handleAssess)
	mux.HandleFunc("/api/dashboard/stats", s.handleDashboardStats)
	mux.HandleFunc("/api/dashboard/categories", s.handleDashboardCategories)
	mux.HandleFunc("/api/dashboard/map", s.handleDashboardMap)
	mux.HandleFunc("/api/dashboard/trend", s.handleDashboardTrend)
	mux.HandleFunc("/api/dashboard/latest", s.handleDashboardLatest)
	mux.HandleFunc("/api/health", s.handleHealth)
	return corsMiddleware(loggingMiddleware(mux))
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Image     string `json:"image,omitempty"` // data URI
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (s *Server) session(id string) *chatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &chatSession{sess: chat.NewSession(s.Model())}
		s.sessions[id] = sess
		if s.store != nil {
			ctx := context.Background()
			if err := s.store.CreateSession(ctx, sqlite.SessionRecord{ID: id, Channel: "api"}); err != nil {
				log.Printf("[WARN] transcript session %s: %v", id, err)
			} else if err := s.store.AppendMessage(ctx, sqlite.MessageRecord{
				SessionID: id, Role: "system", Content: chat.SystemInstruction,
			}); err != nil {
				log.Printf("[WARN] transcript system turn: %v", err)
			}
		}
	}
	return sess
}

func (s *Server) record(sessionID, role, content string, hasImage bool) {
	if s.store == nil {
		return
	}
	err := s.store.AppendMessage(context.Background(), sqlite.MessageRecord{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		HasImage:  hasImage,
	})
	if err != nil {
		log.Printf("[WARN] transcript %s turn: %v", role, err)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" && req.Image == "" {
		writeError(w, http.StatusBadRequest, "message or image is required")
		return
	}

	var img *attachment.Image
	if req.Image != "" {
		parsed, err := attachment.FromDataURI(req.Image)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid image: "+err.Error())
			return
		}
		img = parsed
	}

	cs := s.session(req.SessionID)
	if !cs.mu.TryLock() {
		writeError(w, http.StatusConflict, "session is awaiting a model reply")
		return
	}
	defer cs.mu.Unlock()

	cs.sess.AppendUserTurn(req.Message, img)
	s.record(req.SessionID, "user", req.Message, img != nil)

	reply, err := cs.sess.RequestReply(r.Context())
	if err != nil {
		var callErr *vlm.ModelCallError
		switch {
		case errors.Is(err, chat.ErrBusy):
			writeError(w, http.StatusConflict, "session is awaiting a model reply")
		case errors.As(err, &callErr):
			writeError(w, http.StatusBadGateway, "model call failed: "+callErr.Err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	text := vlm.MessageText(reply)
	s.record(req.SessionID, "assistant", text, false)
	writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Reply: text})
}

type assessResponse struct {
	OK         bool                       `json:"ok"`
	Assessment *assessment.RiskAssessment `json:"valutazione,omitempty"`
	Degraded   bool                       `json:"parziale,omitempty"`
	RawReply   string                     `json:"risposta_modello,omitempty"`
	Error      string                     `json:"errore,omitempty"`
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	img, location, err := readAssessInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := assessor.New(s.Model()).Assess(r.Context(), img, location)
	if err != nil {
		var callErr *vlm.ModelCallError
		var extErr *assessment.ExtractionError
		switch {
		case errors.As(err, &callErr):
			writeError(w, http.StatusBadGateway, "model call failed: "+callErr.Err.Error())
		case errors.As(err, &extErr):
			// The model answered but not in the expected shape; hand the
			// raw reply back so the caller can still show it.
			writeJSON(w, http.StatusUnprocessableEntity, assessResponse{
				RawReply: extErr.Raw,
				Error:    extErr.Err.Error(),
			})
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		// Render into memory before writing any headers, so a degraded
		// record does not ship as a successful zero-byte download.
		var buf bytes.Buffer
		if err := report.Render(&buf, rec); err != nil {
			var renderErr *report.RenderError
			if errors.As(err, &renderErr) {
				writeJSON(w, http.StatusUnprocessableEntity, assessResponse{
					Assessment: &rec,
					Degraded:   true,
					Error:      renderErr.Error(),
				})
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		name := report.Filename(rec.Timestamp)
		w.Header().Set("Content-Type", report.MIMEType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		if _, err := buf.WriteTo(w); err != nil {
			log.Printf("[ERROR] write report: %v", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, assessResponse{
		OK:         true,
		Assessment: &rec,
		Degraded:   rec.Degraded(),
	})
}

// readAssessInput accepts either a multipart form with an "image" file
// and optional "location" field, or a JSON body carrying a data URI.
func readAssessInput(r *http.Request) (*attachment.Image, string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, "", fmt.Errorf("parse form: %w", err)
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, "", fmt.Errorf("image file is required")
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			return nil, "", fmt.Errorf("read image: %w", err)
		}
		img, err := attachment.FromBytes(data)
		if err != nil {
			return nil, "", err
		}
		return img, r.FormValue("location"), nil
	}

	var req struct {
		Image    string `json:"image"`
		Location string `json:"location"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&req); err != nil {
		return nil, "", fmt.Errorf("invalid JSON body")
	}
	if req.Image == "" {
		return nil, "", fmt.Errorf("image is required")
	}
	img, err := attachment.FromDataURI(req.Image)
	if err != nil {
		return nil, "", err
	}
	return img, req.Location, nil
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.Stats())
}

func (s *Server) handleDashboardCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.Categories())
}

func (s *Server) handleDashboardMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.Markers())
}

func (s *Server) handleDashboardTrend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.WeeklyTrend())
}

func (s *Server) handleDashboardLatest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.LatestReports())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"model":  s.cfg.Model,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"errore": msg})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
