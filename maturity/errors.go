/*
errors.go - Error types for the maturity engine boundary

PURPOSE:
  The rule engine itself never returns errors; malformed records degrade
  to defaults. Errors only appear at the edges: fetching records and
  writing the result document.

ERROR CATEGORIES:
  1. Source errors - Upstream data access failed
  2. Configuration errors - A required collaborator is missing
  3. Store errors - Policy fixtures could not be written

USAGE:
  records, err := maturity.Load(ctx, src)
  if errors.Is(err, maturity.ErrSourceUnavailable) {
      // report upstream failure
  }

SEE ALSO:
  - source.go: Returns these errors
  - export/xml.go: ExportError for write failures
*/
package maturity

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSourceUnavailable is returned when the data source fails to
	// produce records.
	ErrSourceUnavailable = errors.New("policy source unavailable")

	// ErrSourceRequired is returned when no source was configured.
	ErrSourceRequired = errors.New("policy source required")

	// ErrDuplicatePolicyNumber is returned by a PolicyStore when a policy
	// number is already taken.
	ErrDuplicatePolicyNumber = errors.New("duplicate policy number")

	// ErrPolicyNotFound is returned when deleting a policy that does not exist.
	ErrPolicyNotFound = errors.New("policy not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// SourceError wraps the error reported by a Source.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%v: %v", ErrSourceUnavailable, e.Err)
}

// Is lets errors.Is match both ErrSourceUnavailable and the cause.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
