package monitor

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type ServerConfig struct {
	Host string
	Port int
}

// Server exposes /metrics and the latest frames as JSON on /latest.
type Server struct {
	ServerConfig
	log      zerolog.Logger
	latest   *Latest
	gatherer prometheus.Gatherer
}

func NewServer(cfg ServerConfig, latest *Latest, gatherer prometheus.Gatherer, log zerolog.Logger) *Server {
	return &Server{
		ServerConfig: cfg,
		log:          log,
		latest:       latest,
		gatherer:     gatherer,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	e.GET("/latest", func(c echo.Context) error {
		return c.JSON(http.StatusOK, s.latest.Snapshot())
	})
	return e
}

// Run serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return maskAny(err)
	}
	srv := http.Server{Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := srv.Serve(lis); err != nil && err != http.ErrServerClosed {
		return maskAny(err)
	}
	return nil
}
