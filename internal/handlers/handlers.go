package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sanam/internal/cache"
	apperr "sanam/internal/errors"
	"sanam/internal/service"
)

type Handlers struct {
	services    *service.Services
	cacheClient *cache.Client
}

func NewHandlers(services *service.Services, cacheClient *cache.Client) *Handlers {
	return &Handlers{
		services:    services,
		cacheClient: cacheClient,
	}
}

// respondError maps domain errors to their HTTP status. Unexpected errors
// surface as a generic 500 without internal detail.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	body := gin.H{"error": err.Error(), "code": apperr.KindOf(err)}
	if details := apperr.DetailsOf(err); len(details) > 0 {
		body["details"] = details
	}
	c.JSON(status, body)
}
