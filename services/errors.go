package services

import (
	"errors"
	"regexp"
	"strconv"

	"google.golang.org/api/googleapi"

	"github.com/yaskovbs/tube2blog-backend/errs"
)

var statusInMessage = regexp.MustCompile(`\b(4\d\d|5\d\d)\b`)

// CategorizeGoogleAPIError translates a failed Google API call into the error
// taxonomy by its HTTP status class. Calls routed through client libraries
// sometimes flatten the status into the message text, so a message scan backs
// up the typed check. Errors with no recognizable status become
// ServiceUnavailable, the most actionable category for the user.
func CategorizeGoogleAPIError(service string, err error) *errs.ApiErr {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return errs.FromStatusCode(service, gErr.Code, err)
	}

	if match := statusInMessage.FindString(err.Error()); match != "" {
		code, _ := strconv.Atoi(match)
		return errs.FromStatusCode(service, code, err)
	}

	return errs.NewServiceUnavailableError(service, err)
}
