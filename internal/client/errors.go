package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAccessDenied means the service token lacks the scope for the call (HTTP 403)
	ErrAccessDenied = errors.New("catalogue: access denied")
	// ErrUnauthorized means the catalogue rejected the service token (HTTP 401)
	ErrUnauthorized = errors.New("catalogue: unauthorized")
	// ErrProductNotFound is returned for HTTP 404 on a product resource
	ErrProductNotFound = errors.New("catalogue: product not found")
	// ErrServiceUnavailable covers connection failures and timeouts
	ErrServiceUnavailable = errors.New("catalogue: service unavailable")
)

// BadRequestError carries the validation messages of a 400 problem response
type BadRequestError struct {
	Detail string
	Errors []string
}

func (e *BadRequestError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("catalogue: bad request: %s", e.Detail)
	}
	return fmt.Sprintf("catalogue: bad request: %s", strings.Join(e.Errors, "; "))
}

// UnexpectedStatusError is returned for any status the client has no mapping for
type UnexpectedStatusError struct {
	StatusCode int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("catalogue: unexpected status %d", e.StatusCode)
}
