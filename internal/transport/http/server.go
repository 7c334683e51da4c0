// Package httpapi exposes the control surface: direct order placement,
// one-shot analysis, pulse loop control, and ledger views. Authentication is
// the host's concern; this server assumes an authenticated caller.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vortex/internal/logger"
)

type Server struct {
	addr   string
	router *gin.Engine
}

func NewServer(addr string, r *Router) (*Server, error) {
	if r == nil {
		return nil, errors.New("http server requires a router")
	}
	if addr == "" {
		addr = ":9991"
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Register(engine.Group("/api"))

	return &Server{addr: addr, router: engine}, nil
}

func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start serves until ctx is canceled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		client := c.ClientIP()
		c.Next()
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s",
			method, path, c.Writer.Status(), client, time.Since(start))
	}
}
