package domain

import "errors"

// ErrInvalidCredentials is returned when a manager username or password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")
