package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/events"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/registry"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

var (
	ErrListFlows = errors.New("failed to list flows")
	ErrSaveFlow  = errors.New("failed to save flow")
)

func (s *Server) listFlows(c *gin.Context) {
	flows, err := s.registry.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrListFlows, err),
			Status: http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, api.FlowsListResponse{
		Flows: flows,
		Count: len(flows),
	})
}

func (s *Server) saveFlow(c *gin.Context) {
	var flow api.Flow
	if err := c.ShouldBindJSON(&flow); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	id, err := s.registry.Save(c.Request.Context(), &flow)
	if err == nil {
		c.JSON(http.StatusCreated, api.FlowSavedResponse{ID: id})
		return
	}

	if errors.Is(err, api.ErrFlowVersionSealed) {
		c.JSON(http.StatusConflict, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusConflict,
		})
		return
	}
	c.JSON(http.StatusBadRequest, api.ErrorResponse{
		Error:  fmt.Sprintf("%s: %v", ErrSaveFlow, err),
		Status: http.StatusBadRequest,
	})
}

func (s *Server) getFlow(c *gin.Context) {
	flowID := api.FlowID(c.Param("flowID"))

	flow, err := s.registry.Get(c.Request.Context(), flowID)
	if err == nil {
		c.JSON(http.StatusOK, flow)
		return
	}

	if errors.Is(err, api.ErrFlowNotFound) {
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

func (s *Server) publishFlow(c *gin.Context) {
	flowID := api.FlowID(c.Param("flowID"))

	sealedID, err := s.registry.Publish(c.Request.Context(), flowID)
	if err == nil {
		s.hub.Publish(&events.Event{
			Type:     events.TypeFlowSealed,
			FlowID:   flowID,
			SealedID: sealedID,
		})
		c.JSON(http.StatusOK, api.FlowPublishedResponse{
			SealedID: sealedID,
		})
		return
	}

	if errors.Is(err, api.ErrFlowNotFound) {
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

func (s *Server) listNodeTypes(c *gin.Context) {
	c.JSON(http.StatusOK, api.NodeTypesResponse{
		NodeTypes: registry.NodeTypes(),
	})
}
