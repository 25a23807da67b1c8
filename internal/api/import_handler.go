package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/agency-admin-api/internal/config"
	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ImportHandler handles import endpoints
type ImportHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "import").Logger(),
	}
}

// CreateImport handles POST /v1/imports?resource=...
// Accepts a multipart "file" field or a raw NDJSON body
func (h *ImportHandler) CreateImport(c *gin.Context) {
	ctx := c.Request.Context()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Import.MaxUploadSize)

	resource := c.PostForm("resource")
	if resource == "" {
		resource = c.Query("resource")
	}
	if _, ok := models.Resources[resource]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource must be one of: projects, blogs, jobs, team, services"})
		return
	}

	var body io.Reader = c.Request.Body
	if file, header, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		if header.Size > h.cfg.Import.MaxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("file too large, max size is %d MB", h.cfg.Import.MaxUploadSize/(1024*1024)),
			})
			return
		}
		body = file
	}

	result, err := h.services.Import.Import(ctx, resource, body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
			return
		}
		respondError(c, h.log, err)
		return
	}

	h.log.Info().
		Str("resource", resource).
		Int("created", result.Created).
		Int("failed", result.Failed).
		Msg("Import finished")

	if c.Query("format") == "csv" {
		writeImportErrorsCSV(c, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeImportErrorsCSV answers with the rejected lines as CSV
func writeImportErrorsCSV(c *gin.Context, result *service.ImportResult) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=errors_%s.csv", result.Resource))
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	writer.Write([]string{"line", "field", "message", "value"})
	for _, e := range result.Errors {
		value := ""
		if e.Value != nil {
			value = fmt.Sprintf("%v", e.Value)
		}
		writer.Write([]string{strconv.Itoa(e.Line), e.Field, e.Message, value})
	}
	writer.Flush()
}
