package api

import (
	"net/http"

	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/repository"
	"github.com/agency-admin-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ContentHandler serves CRUD endpoints for one collection
type ContentHandler[T models.Record] struct {
	svc   *service.ContentService[T]
	blank func() T
	log   zerolog.Logger
}

// NewContentHandler creates a handler; blank returns a record with the form defaults
func NewContentHandler[T models.Record](svc *service.ContentService[T], blank func() T, resource string, log zerolog.Logger) *ContentHandler[T] {
	return &ContentHandler[T]{
		svc:   svc,
		blank: blank,
		log:   log.With().Str("handler", resource).Logger(),
	}
}

func registerResource[T models.Record](group *gin.RouterGroup, resource string, svc *service.ContentService[T], blank func() T, log zerolog.Logger) {
	h := NewContentHandler(svc, blank, resource, log)
	g := group.Group("/" + resource)
	{
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/:id", h.Get)
		g.PATCH("/:id", h.Update)
		g.PUT("/:id", h.Replace)
		g.DELETE("/:id", h.Delete)
	}
}

// List handles GET /v1/<resource>
func (h *ContentHandler[T]) List(c *gin.Context) {
	res := h.svc.List(c.Request.Context())
	if res.Err != nil {
		respondError(c, h.log, res.Err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": res.Records, "count": len(res.Records)})
}

// Get handles GET /v1/<resource>/:id
func (h *ContentHandler[T]) Get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Create handles POST /v1/<resource>. Omitted fields take the form defaults.
func (h *ContentHandler[T]) Create(c *gin.Context) {
	rec := h.blank()
	if err := c.ShouldBindJSON(rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), rec)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PATCH /v1/<resource>/:id
func (h *ContentHandler[T]) Update(c *gin.Context) {
	var patch repository.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Replace handles PUT /v1/<resource>/:id
func (h *ContentHandler[T]) Replace(c *gin.Context) {
	rec := h.blank()
	if err := c.ShouldBindJSON(rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}

	replaced, err := h.svc.Replace(c.Request.Context(), c.Param("id"), rec)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, replaced)
}

// Delete handles DELETE /v1/<resource>/:id
func (h *ContentHandler[T]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
