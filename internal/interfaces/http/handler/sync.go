package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	appsync "github.com/storelink/backend/internal/application/sync"
	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/interfaces/http/dto"
)

// allTypes is the path segment that selects every registered record type
const allTypes = "all"

// SyncHandler handles sync pass HTTP requests
type SyncHandler struct {
	BaseHandler
	syncService *appsync.Service
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *appsync.Service) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// RegisterRoutes registers the sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/run/:type", h.Run)
		sync.GET("/status", h.Status)
		sync.POST("/reset/:type", h.ResetParked)
	}
}

// Run triggers one sync pass for the record type in the path, or for
// every registered type when the path says "all". An optional ?limit=
// caps the batch size.
func (h *SyncHandler) Run(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	typeName := c.Param("type")
	if typeName == allTypes {
		results, err := h.syncService.RunAll(c.Request.Context(), limit)
		if h.handleSyncError(c, err) {
			return
		}
		h.Success(c, results)
		return
	}

	result, err := h.syncService.RunType(c.Request.Context(), typeName, limit)
	if h.handleSyncError(c, err) {
		return
	}
	h.Success(c, result)
}

// Status reports the dirty/parked/clean backlog per record type
func (h *SyncHandler) Status(c *gin.Context) {
	statuses, err := h.syncService.Status(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statuses)
}

// ResetParked re-arms parked records of the type in the path
func (h *SyncHandler) ResetParked(c *gin.Context) {
	result, err := h.syncService.ResetParked(c.Request.Context(), c.Param("type"))
	if h.handleSyncError(c, err) {
		return
	}
	h.Success(c, result)
}

// handleSyncError maps sync service errors to HTTP responses, reporting
// whether the request is finished. A pass that pushed some records but
// hit failures still returns its batch result, so only the sentinel
// errors abort here.
func (h *SyncHandler) handleSyncError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, appsync.ErrUnknownRecordType):
		h.BadRequest(c, err.Error())
		return true
	case errors.Is(err, outbox.ErrNotRegistered):
		h.NotFound(c, err.Error())
		return true
	case errors.Is(err, appsync.ErrPassInProgress):
		h.Conflict(c, dto.ErrCodeSyncInProgress, err.Error())
		return true
	default:
		h.HandleError(c, err)
		return true
	}
}
