package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Generative-AI collaborator errors. Every failed external call is translated
// into one of these categories at the call site and surfaced to the user; no
// category triggers an automatic retry.
var (
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrServiceUnavailable = errors.New("service unavailable")
)

func NewRateLimitedError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimited,
		Details:    fmt.Sprintf("%s rate limit exceeded, try again later", service),
	}
}

func NewServiceUnavailableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnavailable,
		Details:    fmt.Sprintf("%s returned a server-side failure, try again later", service),
		Cause:      cause,
	}
}

// FromStatusCode maps an HTTP-like status class from an external collaborator
// onto the error taxonomy. Unknown classes collapse into an internal error
// carrying the original cause.
func FromStatusCode(service string, code int, cause error) *ApiErr {
	switch {
	case code == http.StatusBadRequest:
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			err:        ErrInvalidInput,
			Details:    fmt.Sprintf("Invalid request to %s, check your prompt", service),
			Cause:      cause,
		}
	case code == http.StatusUnauthorized:
		return &ApiErr{
			StatusCode: http.StatusUnauthorized,
			err:        ErrUnauthorized,
			Details:    fmt.Sprintf("Invalid API key for %s, check your API key", service),
			Cause:      cause,
		}
	case code == http.StatusForbidden:
		return &ApiErr{
			StatusCode: http.StatusForbidden,
			err:        ErrForbidden,
			Details:    fmt.Sprintf("API key lacks permission or access for %s, check billing", service),
			Cause:      cause,
		}
	case code == http.StatusTooManyRequests:
		return NewRateLimitedError(service)
	case code >= 500:
		return NewServiceUnavailableError(service, cause)
	default:
		return &ApiErr{
			StatusCode: http.StatusInternalServerError,
			err:        ErrInternal,
			Details:    fmt.Sprintf("%s call failed with status %d", service, code),
			Cause:      cause,
		}
	}
}

func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}
