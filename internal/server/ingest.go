package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/normalize"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/log"
)

// EventTypeHeader optionally hints the event type of a source payload
const EventTypeHeader = "X-Event-Type"

var (
	ErrInvalidJSON = errors.New("invalid JSON")
	ErrReadBody    = errors.New("failed to read request body")
	ErrIngest      = errors.New("event ingestion failed")
)

func (s *Server) handleIngest(c *gin.Context) {
	source := c.Param("source")
	hint := c.GetHeader(EventTypeHeader)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrReadBody, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	res, err := s.gateway.Ingest(c.Request.Context(), source, hint, payload)
	if err != nil {
		s.ingestError(c, source, err)
		return
	}

	c.JSON(http.StatusOK, api.IngestResponse{
		Status: api.StatusAccepted,
		Event:  res.EventType,
		ID:     res.RunID,
	})
}

func (s *Server) handleIngestCanonical(c *gin.Context) {
	var event api.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	res, err := s.gateway.IngestEvent(c.Request.Context(), &event)
	if err != nil {
		s.ingestError(c, event.Source, err)
		return
	}

	c.JSON(http.StatusOK, api.IngestResponse{
		Status: api.StatusAccepted,
		Event:  res.EventType,
		ID:     res.RunID,
	})
}

// ingestError maps pipeline failures: malformed payloads and guard or
// validation failures are the client's fault; anything that survived
// the retry budget surfaces as unavailable
func (s *Server) ingestError(c *gin.Context, source string, err error) {
	slog.Warn("Ingestion failed",
		log.Source(source), log.Error(err))

	switch {
	case errors.Is(err, normalize.ErrInvalidPayload),
		errors.Is(err, api.ErrEventTypeEmpty),
		errors.Is(err, api.ErrEventSourceEmpty):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusUnprocessableEntity,
		})
	default:
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrIngest, err),
			Status: http.StatusServiceUnavailable,
		})
	}
}
