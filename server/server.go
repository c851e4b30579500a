// Package server - OpenAI-kompatibler HTTP-Server fuer eine Chat-Session
// Beinhaltet: Server-Struct, Konfiguration, Serve mit Signal-Behandlung
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/semaphore"

	"github.com/smolchat/smolchat/runner"
	"github.com/smolchat/smolchat/store"
)

var mode string = gin.DebugMode

func init() {
	switch mode {
	case gin.DebugMode:
	case gin.ReleaseMode:
	case gin.TestMode:
	default:
		mode = gin.DebugMode
	}

	gin.SetMode(mode)
}

// Config beschreibt einen Server
type Config struct {
	// Session bearbeitet alle Requests nacheinander
	Session *runner.Session

	// Model ist der unter /v1/models gemeldete Name
	Model string

	// Store speichert Chats mit X-Smolchat-Chat Header (optional)
	Store *store.Store

	// Registry fuer Prometheus-Metriken; nil erstellt eine eigene
	Registry *prometheus.Registry
}

// Server verwaltet den HTTP-Server und die Session
type Server struct {
	addr    net.Addr
	session *runner.Session
	model   string
	created time.Time
	store   *store.Store

	// sem serialisiert die Requests auf der Session
	sem *semaphore.Weighted

	registry *prometheus.Registry
	metrics  *metrics
}

// New erstellt einen Server fuer cfg.Session
func New(cfg Config) (*Server, error) {
	if cfg.Session == nil {
		return nil, errors.New("server: no session")
	}

	if !cfg.Session.Options().StoreChats {
		slog.Warn("session does not keep history between turns, request history will be ignored")
	}

	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Server{
		session:  cfg.Session,
		model:    cfg.Model,
		created:  time.Now(),
		store:    cfg.Store,
		sem:      semaphore.NewWeighted(1),
		registry: reg,
		metrics:  newMetrics(reg),
	}, nil
}

// Serve beantwortet Requests auf ln bis ctx endet
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.addr = ln.Addr()

	srvr := &http.Server{
		Handler:           s.GenerateRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srvr.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown", "error", err)
			srvr.Close()
		}
	}()

	slog.Info(fmt.Sprintf("Listening on %s", ln.Addr()), "model", s.model)

	err := srvr.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
