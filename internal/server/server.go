package server

import (
	"log/slog"
	"net/http"
	"sync"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/events"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/gateway"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/registry"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/util"
)

// Server implements the HTTP API for the orchestration core
type Server struct {
	gateway  *gateway.Gateway
	registry *registry.Registry
	hub      *events.Hub
	sockets  util.Set[*Client]
	mu       sync.Mutex
}

// NewServer creates a new HTTP API server
func NewServer(
	gw *gateway.Gateway, reg *registry.Registry, hub *events.Hub,
) *Server {
	return &Server{
		gateway:  gw,
		registry: reg,
		hub:      hub,
		sockets:  util.Set[*Client]{},
	}
}

// SetupRoutes configures and returns the HTTP router with all API
// endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default()
		}),
	))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set(
			"Access-Control-Allow-Methods",
			"GET, POST, PUT, DELETE, OPTIONS",
		)
		c.Writer.Header().Set(
			"Access-Control-Allow-Headers",
			"Content-Type, Authorization, X-Event-Type",
		)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", s.handleHealth)

	// Ingestion endpoints
	router.POST("/ingest", s.handleIngestCanonical)
	router.POST("/ingest/:source", s.handleIngest)

	// Flow endpoints
	flows := router.Group("/flows")
	{
		flows.GET("", s.listFlows)
		flows.POST("", s.saveFlow)
		flows.GET("/nodes", s.listNodeTypes)
		flows.GET("/:flowID", s.getFlow)
		flows.POST("/:flowID/publish", s.publishFlow)
	}

	// Run endpoints
	runs := router.Group("/runs")
	{
		runs.POST("", s.startRun)
		runs.GET("/:runID", s.getRun)
		runs.POST("/:runID/approve", s.approveRun)
		runs.POST("/:runID/reject", s.rejectRun)
	}

	// Event stream
	router.GET("/events/ws", s.handleWebSocket)

	return router
}

func (s *Server) registerWebSocket(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets.Add(c)
}

func (s *Server) unregisterWebSocket(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets.Remove(c)
}

// CloseWebSockets closes all active WebSocket connections
func (s *Server) CloseWebSockets() {
	s.mu.Lock()
	conns := make([]*Client, 0, len(s.sockets))
	for c := range s.sockets {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}
