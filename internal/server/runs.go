package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/runner"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

var ErrRunFlow = errors.New("failed to run flow")

func (s *Server) startRun(c *gin.Context) {
	var req api.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	if req.Event == nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  "Event is required",
			Status: http.StatusBadRequest,
		})
		return
	}

	rc, err := s.gateway.RunFlow(
		c.Request.Context(), req.FlowID, req.Event, req.DryRun,
	)
	if err == nil {
		c.JSON(http.StatusOK, rc)
		return
	}

	switch {
	case errors.Is(err, api.ErrFlowNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusNotFound,
		})
	case errors.Is(err, runner.ErrEdgeSourceMissing),
		errors.Is(err, runner.ErrEdgeTargetMissing),
		errors.Is(err, api.ErrEventTypeEmpty),
		errors.Is(err, api.ErrEventSourceEmpty):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusUnprocessableEntity,
		})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrRunFlow, err),
			Status: http.StatusInternalServerError,
		})
	}
}

func (s *Server) getRun(c *gin.Context) {
	runID := c.Param("runID")

	rc, err := s.gateway.GetRun(c.Request.Context(), runID)
	if err == nil {
		c.JSON(http.StatusOK, rc)
		return
	}

	if errors.Is(err, api.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{
		Error:  err.Error(),
		Status: http.StatusInternalServerError,
	})
}

func (s *Server) approveRun(c *gin.Context) {
	s.resolveRun(c, true)
}

func (s *Server) rejectRun(c *gin.Context) {
	s.resolveRun(c, false)
}

func (s *Server) resolveRun(c *gin.Context, approve bool) {
	runID := c.Param("runID")

	rc, err := s.gateway.Resolve(c.Request.Context(), runID, approve)
	if err == nil {
		c.JSON(http.StatusOK, rc)
		return
	}

	switch {
	case errors.Is(err, api.ErrRunNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusNotFound,
		})
	case errors.Is(err, runner.ErrRunNotPending):
		c.JSON(http.StatusConflict, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusConflict,
		})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusInternalServerError,
		})
	}
}
