package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/docu-cli/internal/logger"
)

const (
	// DefaultMaxUploadBytes caps the size of an uploaded document.
	DefaultMaxUploadBytes int64 = 32 << 20

	shutdownTimeout = 10 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins restricts CORS to the given origins.
// By default every origin is allowed.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithMaxUploadBytes overrides DefaultMaxUploadBytes.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// Server serves the document API.
type Server struct {
	ports     *Ports
	origins   []string
	maxUpload int64
	router    *gin.Engine
}

// NewServer creates a Server over the given ports.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating api server: %w", err)
	}

	s := &Server{
		ports:     ports,
		maxUpload: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.newRouter()
	return s, nil
}

func (s *Server) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	if len(s.origins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.origins
	}
	router.Use(cors.New(corsCfg))
	router.MaxMultipartMemory = s.maxUpload

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/documents", s.uploadDocument)
		api.GET("/documents", s.listDocuments)
		api.GET("/documents/:id", s.getDocument)
		api.GET("/documents/:id/messages", s.listMessages)
		api.POST("/documents/:id/messages", s.askQuestion)
		api.POST("/documents/:id/summary", s.summarizeDocument)
	}
	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			logger.Error("%s %s %d: %s", c.Request.Method, c.Request.URL.Path, status, c.Errors.String())
			return
		}
		logger.With("status", status, "took", time.Since(start)).
			Debug(c.Request.Method + " " + c.Request.URL.Path)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
