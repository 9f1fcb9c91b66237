package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/vincentbai/usageanalytics/internal/database"
	"github.com/vincentbai/usageanalytics/internal/logger"
	"github.com/vincentbai/usageanalytics/internal/models"
)

var log = logger.GetLogger()

// Server is a local stand-in for the usage analytics service. It accepts the
// same routes the SDK calls and records events in SQLite.
type Server struct {
	db      *database.Database
	address string
	token   string
	server  *http.Server
}

func NewServer(db *database.Database, address, token string) *Server {
	return &Server{
		db:      db,
		address: address,
		token:   token,
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

func (s *Server) handleEvent(w http.ResponseWriter, request *http.Request) {
	eventType := chi.URLParam(request, "eventType")
	if !s.db.IsValidEventType(eventType) {
		http.Error(w, "Unknown event type", http.StatusBadRequest)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil || body == nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	visitorID, _ := body[models.VisitorIDField].(string)
	now := time.Now().UTC()
	event := models.CollectedEvent{
		TSUTC:     now.UnixMilli(),
		TSISO:     now.Format(time.RFC3339),
		Type:      eventType,
		VisitID:   uuid.NewString(),
		VisitorID: visitorID,
		Data:      body,
	}
	if err := s.db.InsertEvents([]models.CollectedEvent{event}); err != nil {
		log.Errorf("Database error: %v", err)
		http.Error(w, "Failed to store event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, models.EventResponse{VisitID: event.VisitID, VisitorID: event.VisitorID})
}

func (s *Server) handleVisit(w http.ResponseWriter, request *http.Request) {
	writeJSON(w, models.VisitResponse{
		ID:        uuid.NewString(),
		VisitorID: request.URL.Query().Get("visitor"),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, models.HealthResponse{Status: "online"})
}

// requireToken rejects requests without the configured Bearer token.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, request *http.Request) {
		if s.token != "" {
			authorization := request.Header.Get("Authorization")
			if !strings.HasPrefix(authorization, "Bearer ") || strings.TrimPrefix(authorization, "Bearer ") != s.token {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, request)
	})
}

func (s *Server) setupRoutes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("collector", log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	router.Get("/healthz", s.handleHealthz)
	router.Route("/analytics", func(r chi.Router) {
		r.Get("/monitoring/health", s.handleHealth)
		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Get("/visit", s.handleVisit)
			r.Post("/{eventType}", s.handleEvent)
		})
	})
	return router
}

// Handler exposes the routes, mainly for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRoutes()
	s.server = &http.Server{
		Addr:         s.address,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErrors := make(chan error, 1)
	go func() {
		log.Infof("Usage analytics collector listening on %s", s.address)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErrors <- err
		}
		close(serveErrors)
	}()

	select {
	case err, ok := <-serveErrors:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownContext, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownContext); err != nil {
		return err
	}

	log.Info("Server exited")
	return nil
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}
