package restapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sentrix/internal/app/port"
	"sentrix/internal/domain/entity"
)

// statusFor maps an error kind to the HTTP status returned to clients.
func statusFor(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindValidation:
		return http.StatusBadRequest
	case entity.KindUnauthenticated:
		return http.StatusUnauthorized
	case entity.KindNotFound:
		return http.StatusNotFound
	case entity.KindConflict:
		return http.StatusConflict
	case entity.KindRateLimited:
		return http.StatusTooManyRequests
	case entity.KindSchemaMissing:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": msg}. Internal failures are logged and hidden.
func respondError(c *gin.Context, l port.Logger, err error) {
	kind := entity.KindOf(err)
	status := statusFor(kind)

	msg := err.Error()
	switch kind {
	case entity.KindSchemaMissing:
		msg = entity.ErrSchemaMissing.Err.Error()
	case entity.KindUnauthenticated:
		msg = "Unauthorized"
	case entity.KindInternal, entity.KindUpstream:
		l.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		msg = "Internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, entity.Validationf("parse query", "%s must be an integer", name)
	}
	return v, nil
}

// queryChainID reads the optional chainId query parameter; 0 means the default chain.
func queryChainID(c *gin.Context) (uint64, error) {
	raw := c.Query("chainId")
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, entity.Validationf("parse query", "chainId must be a positive integer")
	}
	return v, nil
}

func pageParams(c *gin.Context) (limit, offset int, err error) {
	if limit, err = queryInt(c, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(c, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}
