package queue

import (
	"fmt"

	"barberq/internal/services"
)

// Sentinel markers re-exported from the shared taxonomy so queue callers can
// classify failures without importing services directly.
var (
	ErrNotFound     = services.ErrNotFound
	ErrInvalidInput = services.ErrInvalidInput
	ErrForbidden    = services.ErrForbidden
	ErrConflict     = services.ErrConflict
)

// ErrInvalidOrder marks a reorder request that names no queue entries. It
// classifies as invalid input, but callers that speak the wire protocol can
// report it under its own reason token.
var ErrInvalidOrder = fmt.Errorf("%w: invalid order", services.ErrInvalidInput)

// Wrap tags an error with one of the sentinel markers above.
func Wrap(marker error, operation, message string, err error) error {
	return services.Wrap(marker, "queue", operation, message, err)
}
