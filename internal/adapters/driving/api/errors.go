package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("api: pipeline service is required")

// ErrMissingConversationService is returned when the conversation service is not provided.
var ErrMissingConversationService = errors.New("api: conversation service is required")

// APIError is the body of every error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps an APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// statusFor maps domain errors to HTTP status codes and error codes.
func statusFor(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "upload_too_large"
	case errors.Is(err, domain.ErrInvalidParameter):
		return http.StatusBadRequest, "invalid_parameter"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrParse), errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnprocessableEntity, "unprocessable_document"
	case errors.Is(err, domain.ErrService),
		errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrVectorIndexUnavailable):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{Message: err.Error(), Code: code},
	})
}
