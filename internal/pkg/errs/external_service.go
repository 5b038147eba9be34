package errs

import (
	"errors"
	"fmt"
)

// ErrExternalService marks failures of collaborators outside the process:
// the document store, the push service, the maps API.
var ErrExternalService = errors.New("external service failed")

type ExternalServiceError struct {
	Service string
	Cause   error
}

func NewExternalServiceError(service string, cause error) *ExternalServiceError {
	return &ExternalServiceError{
		Service: service,
		Cause:   cause,
	}
}

func (e *ExternalServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrExternalService, e.Service, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrExternalService, e.Service)
}

// Unwrap exposes both the sentinel and the cause, so context.DeadlineExceeded
// and similar stay matchable through errors.Is.
func (e *ExternalServiceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExternalService}
	}
	return []error{ErrExternalService, e.Cause}
}
