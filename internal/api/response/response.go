package response

import (
	"net/http"

	apperrors "plot-query-service/internal/common/errors"

	"github.com/gin-gonic/gin"
)

// Success writes data as the whole response body.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Fail writes a StandardError with the status that matches its code.
func Fail(c *gin.Context, err error) {
	stdErr := apperrors.AsStandardError(err)
	c.JSON(StatusFor(stdErr.Code), stdErr)
}

// Unavailable answers 503 with a short reason.
func Unavailable(c *gin.Context, reason string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": reason})
}

func StatusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidFilterFormat:
		return http.StatusBadRequest
	case apperrors.ErrCodeCatalogLoadFailed,
		apperrors.ErrCodeDatabaseConnectionFailed,
		apperrors.ErrCodeElasticsearchConnectionFailed,
		apperrors.ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
