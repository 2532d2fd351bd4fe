package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/squad-manager-service/internal/repository"
	"github.com/maxviazov/squad-manager-service/internal/service"
	"github.com/maxviazov/squad-manager-service/pkg/response"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// APIV1Prefix is the canonical base path for public HTTP API v1.
// Keep a single source of truth to avoid path drift across handlers and tests.
const APIV1Prefix = "/api/v1"

// serviceTimeout bounds the aggregate reads, which scan the whole match log.
const serviceTimeout = 5 * time.Second

// pageFromQuery reads limit/offset. Atoi errors are ignored intentionally, as 0 is a valid
// default for limit/offset, handled by repository.Page.Normalize.
func pageFromQuery(c *gin.Context) repository.Page {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return repository.Page{Limit: limit, Offset: offset}
}

// bindJSON decodes the body and reports a malformed one as a field error.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		// не расшифровываем внутренние детали парсинга
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "must be a valid JSON object"}}))
		return false
	}
	return true
}

// idParam returns the trimmed :id path parameter, writing a 400 when it is blank.
func idParam(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must not be empty"}}))
		return "", false
	}
	return id, true
}

// aggregate runs a heavy read under serviceTimeout and logs path, duration and status.
func aggregate[T any](c *gin.Context, what string, fn func(ctx context.Context) (T, error)) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	res, err := fn(ctx)

	logger := log.With().
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Dur("duration", time.Since(start)).
		Logger()

	if err != nil {
		status, _ := response.MapError(err)
		logEvent(logger, status).Err(err).Int("status", status).Msgf("failed to get %s", what)
		response.WriteError(c, err)
		return
	}
	logger.Info().Int("status", http.StatusOK).Msgf("%s retrieved", what)
	response.WriteData(c, http.StatusOK, res)
}

func logEvent(l zerolog.Logger, status int) *zerolog.Event {
	if status >= http.StatusInternalServerError {
		return l.Error()
	}
	return l.Warn()
}
