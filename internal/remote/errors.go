package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a descriptor/unit-type/deal/insurance id missing from
	// the freshly fetched catalog (stale client state, not a crash).
	ErrNotFound = errors.New("Not found in current catalog")
)

// UnavailableError is a network/transport failure reaching the inventory API.
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("rapidstor unreachable: %v", e.Cause)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

// RejectedError is a non-200 from the inventory API, carrying the upstream
// message verbatim where the body had one.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("rapidstor rejected request: status %d", e.StatusCode)
}

// IsNotFound reports whether err is the stale-id case.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
