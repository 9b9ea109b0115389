package types

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")
	ErrStorageFailure  = errors.New("storage failure")
)

// Credential and gate errors. Each wraps the generic sentinel it belongs to,
// so errors.Is(ErrInvalidPassword, ErrUnauthenticated) holds.
var (
	ErrDuplicateUsername = fmt.Errorf("username already exists: %w", ErrConflict)
	ErrInvalidUser       = fmt.Errorf("invalid user: %w", ErrUnauthenticated)
	ErrInvalidPassword   = fmt.Errorf("invalid password: %w", ErrUnauthenticated)
	ErrMissingToken      = fmt.Errorf("missing jwt token: %w", ErrUnauthenticated)
	ErrInvalidToken      = fmt.Errorf("invalid jwt token: %w", ErrUnauthenticated)
)
