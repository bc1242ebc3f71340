package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/yaskovbs/tube2blog-backend/errs"
)

func TestCategorizeGoogleAPIErrorTypedStatus(t *testing.T) {
	tests := []struct {
		code       int
		wantStatus int
		sentinel   error
	}{
		{http.StatusTooManyRequests, http.StatusTooManyRequests, errs.ErrRateLimited},
		{http.StatusUnauthorized, http.StatusUnauthorized, errs.ErrUnauthorized},
		{http.StatusForbidden, http.StatusForbidden, errs.ErrForbidden},
		{http.StatusBadRequest, http.StatusBadRequest, errs.ErrInvalidInput},
		{http.StatusServiceUnavailable, http.StatusServiceUnavailable, errs.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		err := CategorizeGoogleAPIError("Gemini API", &googleapi.Error{Code: tt.code})
		require.NotNil(t, err)
		assert.Equal(t, tt.wantStatus, err.StatusCode)
		assert.True(t, errors.Is(err, tt.sentinel), "code %d should map to %v", tt.code, tt.sentinel)
	}
}

func TestCategorizeGoogleAPIErrorStatusInMessage(t *testing.T) {
	err := CategorizeGoogleAPIError("Gemini API", fmt.Errorf("googleapi: got HTTP response code 429 with body"))
	assert.True(t, errors.Is(err, errs.ErrRateLimited))
}

func TestCategorizeGoogleAPIErrorUnknownBecomesServiceUnavailable(t *testing.T) {
	err := CategorizeGoogleAPIError("Gemini API", fmt.Errorf("connection reset by peer"))
	assert.True(t, errors.Is(err, errs.ErrServiceUnavailable))
}

func TestCategorizeGoogleAPIErrorPassesThroughApiErr(t *testing.T) {
	original := errs.NewNotFoundError("video")
	got := CategorizeGoogleAPIError("YouTube Data API", original)
	assert.Same(t, original, got)
}
