package validation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
)

// ErrInvalidUUID is returned for malformed transaction ids.
var ErrInvalidUUID = apperrors.ErrInvalidUUID

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}
