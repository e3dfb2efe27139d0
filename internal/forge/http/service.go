// Package http exposes a read-only local diagnostics surface: health,
// process metrics, and a throughput snapshot for a human operator. It is
// not a peer protocol — the watcher core only ever publishes to its
// broadcast channel, never imports this package.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	forgeerrors "github.com/sjzar/forge/internal/errors"
)

// Stats is the live counters the diagnostics endpoints report. Manager.Stats
// builds it on demand from the watcher for each request.
type Stats struct {
	SnapshotCount  int     `json:"snapshot_count"`
	QueueOccupancy int     `json:"queue_occupancy"`
	Dropped        uint64  `json:"dropped"`
	OpsPerSecond   float64 `json:"ops_per_second"`
	WorkerCount    int     `json:"worker_count"`
}

// StatsProvider is implemented by whatever owns the live watcher; kept as
// a narrow interface so this package never imports internal/watcher.
type StatsProvider interface {
	Stats() Stats
}

type Service struct {
	addr     string
	provider StatsProvider

	router *gin.Engine
	server *http.Server
}

func NewService(addr string, provider StatsProvider) *Service {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Err(err).Msg("failed to set trusted proxies")
	}

	router.Use(
		forgeerrors.RecoveryMiddleware(),
		forgeerrors.ErrorHandlerMiddleware(),
		gin.LoggerWithWriter(log.Logger, "/healthz"),
	)

	s := &Service{addr: addr, provider: provider, router: router}
	s.initRoutes()
	return s
}

func (s *Service) initRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.provider.Stats())
	})
	s.router.GET("/debug/throughput", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ops_per_second": s.provider.Stats().OpsPerSecond})
	})
}

func (s *Service) Start() error {
	s.server = &http.Server{Addr: s.addr, Handler: s.router}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Err(forgeerrors.HTTPShutDown(err)).Msg("diagnostics http server failed")
		}
	}()
	log.Info().Str("addr", s.addr).Msg("diagnostics http server listening")
	return nil
}

func (s *Service) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return forgeerrors.HTTPShutDown(err)
	}
	return nil
}
