package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/exports?resource=...&format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	resource := c.Query("resource")
	if _, ok := models.Resources[resource]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource must be one of: projects, blogs, jobs, team, services"})
		return
	}

	format := c.Query("format")
	if format == "" {
		format = service.FormatNDJSON // Default to NDJSON for streaming
	}
	contentType, ok := service.ContentTypes[format]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json, csv"})
		return
	}

	total, err := h.services.Export.GetCount(c.Request.Context(), resource)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("X-Total-Count", strconv.Itoa(total))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", resource, format))

	count, err := h.services.Export.Stream(c.Request.Context(), c.Writer, resource, format)
	if err != nil {
		h.log.Error().Err(err).Str("resource", resource).Msg("Export failed")
		// Can't return error JSON after streaming has started
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Type")
			c.Writer.Header().Del("Content-Disposition")
			c.Writer.Header().Del("X-Total-Count")
			respondError(c, h.log, err)
		}
		return
	}

	h.log.Info().Str("resource", resource).Str("format", format).Int("count", count).Msg("Export streamed")
}
