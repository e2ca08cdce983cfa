package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"zapgate/internal/gateway"
	"zapgate/internal/middleware"
	"zapgate/internal/models"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Error messages exposed on the wire. Callers of the original deployment
// parse these exact strings, so they stay in Portuguese.
const (
	errMsgNotReady     = "WhatsApp não está pronto."
	errMsgInvalidInput = "Dados inválidos."
)

// gatewayService is the part of the gateway the HTTP facade needs.
type gatewayService interface {
	SendText(ctx context.Context, req models.SendRequest) (*models.SendResponse, error)
	Status() models.GatewayStatus
	PairingCode() string
	State() gateway.SessionState
}

type Server struct {
	router  *mux.Router
	logger  *logrus.Logger
	gateway gatewayService
	cfg     models.ServerConfig
	server  *http.Server
}

func NewServer(cfg models.ServerConfig, gw gatewayService, logger *logrus.Logger) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		logger:  logger,
		gateway: gw,
		cfg:     cfg,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.ObservabilityMiddleware(s.logger))

	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)
	s.router.HandleFunc("/status", s.handleStatus()).Methods(http.MethodGet)
	s.router.HandleFunc("/qr", s.handleQR()).Methods(http.MethodGet)
	s.router.Handle("/send", s.requireAPIKey(s.handleSend())).Methods(http.MethodPost)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSec) * time.Second,
	}

	s.logger.Infof("Starting server on port %d", s.cfg.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"state":  s.gateway.State(),
		})
	}
}

func (s *Server) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, s.gateway.Status())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
