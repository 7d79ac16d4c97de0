package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veristream/veristream/internal/store"
)

const defaultClaimLimit = 10

// CreateClaim persists a new claim and announces it to the processing side
func (s *Server) CreateClaim(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claim, err := s.store.CreateClaim(c.Request.Context(), req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if s.publisher != nil {
		if err := s.publisher.ClaimCreated(c.Request.Context(), claim.ID); err != nil {
			// The claim is persisted; the display layer can still trigger
			// processing on demand
			s.logger.Warn("publish claim created", "claim", claim.ID, "err", err)
		}
	}

	c.JSON(http.StatusCreated, claim)
}

// ListClaims returns the latest claims, newest first, entries included
func (s *Server) ListClaims(c *gin.Context) {
	limit := defaultClaimLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	claims, err := s.store.RecentClaims(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, claims)
}

// GetClaim returns one claim with its fact-check entries
func (s *Server) GetClaim(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid claim id"})
		return
	}

	claim, err := s.store.Claim(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "claim not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, claim)
}

// ProcessClaim runs a processing pass synchronously. Failures come back as
// an error message with status 500, the contract display layers expect.
func (s *Server) ProcessClaim(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid claim id"})
		return
	}

	outcome, err := s.processor.Process(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"confidence": outcome.Confidence,
		"status":     outcome.Status,
	})
}
