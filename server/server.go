// Package server exposes the terminal service over a gin HTTP API and
// a websocket push channel.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/terminal/terminal"
)

// Server is the HTTP front of the terminal.
type Server struct {
	svc    *terminal.Service
	hub    *Hub
	log    *zap.Logger
	router *gin.Engine
}

// New wires the router with logging, recovery, and CORS middleware and
// registers every API route.
func New(svc *terminal.Service, hub *Hub, log *zap.Logger, corsOrigin string) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if corsOrigin == "" {
		corsOrigin = "*"
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestLogger(log), gin.Recovery(), cors(corsOrigin))

	s := &Server{svc: svc, hub: hub, log: log, router: r}
	s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("http server listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) routes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	if s.hub != nil {
		s.router.GET("/ws", s.hub.Serve)
	}

	api := s.router.Group("/api")

	api.GET("/orders", s.getOrders)
	api.POST("/orders", s.placeOrder)
	api.PUT("/orders/:order_id", s.modifyOrder)
	api.DELETE("/orders/:order_id", s.cancelOrder)
	api.GET("/trades", s.getTrades)
	api.GET("/positions", s.getPositions)
	api.GET("/holdings", s.getHoldings)
	api.GET("/limits", s.getLimits)
	api.GET("/dashboard", s.getDashboard)
	api.POST("/margin", s.getMargin)

	live := api.Group("/live")
	live.GET("/orders", s.getLiveOrders)
	live.GET("/trades", s.getLiveTrades)
	live.GET("/positions", s.getLivePositions)
	live.GET("/holdings", s.getLiveHoldings)
	live.GET("/dashboard", s.getLiveDashboard)

	api.POST("/subscribe", s.subscribe)
	api.POST("/unsubscribe", s.unsubscribe)
	api.POST("/subscribe/orderfeed", s.subscribeOrderFeed)
	api.GET("/market-data", s.getMarketData)
	api.GET("/market-depth", s.getMarketDepth)
	api.GET("/subscriptions", s.getSubscriptions)
	api.GET("/watchlist", s.getWatchlist)

	api.GET("/search", s.search)
	api.GET("/mode", s.getMode)
	api.POST("/paper/clear", s.clearPaper)
}

// write maps the service envelope onto an HTTP status: failures are
// client-visible 400s, the envelope carries the reason.
func write(c *gin.Context, resp terminal.Response) {
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, resp)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, terminal.Response{Success: false, Error: msg})
}
