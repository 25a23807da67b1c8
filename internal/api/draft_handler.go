package api

import (
	"net/http"
	"strings"

	"github.com/agency-admin-api/internal/draft"
	"github.com/agency-admin-api/internal/markdown"
	"github.com/agency-admin-api/internal/service"
	"github.com/agency-admin-api/internal/view"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DraftHandler serves draft generation, Markdown previews and dashboard stats
type DraftHandler struct {
	services  *service.Services
	assistant *draft.Assistant
	renderer  *markdown.Renderer
	log       zerolog.Logger
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(services *service.Services, assistant *draft.Assistant, renderer *markdown.Renderer, log zerolog.Logger) *DraftHandler {
	return &DraftHandler{
		services:  services,
		assistant: assistant,
		renderer:  renderer,
		log:       log.With().Str("handler", "draft").Logger(),
	}
}

type draftRequest struct {
	Title string     `json:"title"`
	Kind  draft.Kind `json:"kind"`
}

// Generate handles POST /v1/drafts. Model failures still answer 200 with the placeholder text.
func (h *DraftHandler) Generate(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": view.TitleRequiredMessage})
		return
	}
	if _, ok := draft.Instruction(req.Kind); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be one of: blog, job"})
		return
	}

	c.JSON(http.StatusOK, h.assistant.Draft(c.Request.Context(), req.Title, req.Kind))
}

type previewRequest struct {
	Markdown string `json:"markdown"`
}

// Preview handles POST /v1/preview
func (h *DraftHandler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}
	h.render(c, gin.H{}, req.Markdown)
}

// BlogPreview handles GET /v1/blogs/:id/preview
func (h *DraftHandler) BlogPreview(c *gin.Context) {
	blog, err := h.services.Blogs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.render(c, gin.H{"id": blog.ID, "title": blog.Title}, blog.Content)
}

// JobPreview handles GET /v1/jobs/:id/preview
func (h *DraftHandler) JobPreview(c *gin.Context) {
	job, err := h.services.Jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.render(c, gin.H{"id": job.ID, "title": job.Role}, job.Description)
}

func (h *DraftHandler) render(c *gin.Context, body gin.H, source string) {
	html, err := h.renderer.Render(source)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	body["html"] = html
	c.JSON(http.StatusOK, body)
}

// Stats handles GET /v1/stats
func (h *DraftHandler) Stats(c *gin.Context) {
	stats, err := h.services.Stats.Stats(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Stats incomplete")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load records", "stats": stats})
		return
	}
	c.JSON(http.StatusOK, stats)
}
