package api

import (
	"errors"
	"net/http"

	"github.com/agency-admin-api/internal/database"
	"github.com/agency-admin-api/internal/storage"
	"github.com/agency-admin-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps service errors onto HTTP responses
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verrs})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, storage.ErrReadOnly):
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": err.Error()})
	case storage.IsKind(err, storage.KindList):
		log.Error().Err(err).Msg("Store list failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load records", "records": []any{}})
	case storage.IsKind(err, storage.KindMutation):
		log.Error().Err(err).Msg("Store mutation failed")
		code := http.StatusBadGateway
		if database.IsUnavailable(err) {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"error": "failed to save changes"})
	default:
		log.Error().Err(err).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
