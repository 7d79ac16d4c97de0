// Package server exposes the thin display-layer API: submit a claim, read
// the latest claims with their fact-check entries, trigger a processing pass.
// All decision logic lives in the pipeline; handlers only translate HTTP.
package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/veristream/veristream/internal/notify"
	"github.com/veristream/veristream/internal/pipeline"
	"github.com/veristream/veristream/internal/store"
)

// Processor is the slice of the pipeline the API invokes
type Processor interface {
	Process(ctx context.Context, claimID uint64) (*pipeline.Outcome, error)
}

// Server holds the API dependencies
type Server struct {
	store     store.Store
	processor Processor
	publisher notify.Publisher
	logger    *slog.Logger
}

// New creates the API server. The publisher may be nil when no event bus is
// wired; claims are then only processed on demand.
func New(st store.Store, processor Processor, publisher notify.Publisher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Server{
		store:     st,
		processor: processor,
		publisher: publisher,
		logger:    logger,
	}
}

// Router builds the gin engine with all routes attached
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	v1 := r.Group("/v1")
	{
		v1.POST("/claims", s.CreateClaim)
		v1.GET("/claims", s.ListClaims)
		v1.GET("/claims/:id", s.GetClaim)
		v1.POST("/claims/:id/process", s.ProcessClaim)
	}

	return r
}
