package maturity

import "context"

// =============================================================================
// POLICY STORE - Writable source of base records
// =============================================================================

// PolicyStore is a Source that can also be populated, used by the demo
// scenarios and the HTTP policy endpoints. The engine itself only ever
// needs the read side (Source).
//
// Implementations:
//   - store/sqlite/sqlite.go
//   - store/memory/memory.go
type PolicyStore interface {
	Source

	// SavePolicy inserts one record. Non-empty policy numbers are unique.
	SavePolicy(ctx context.Context, rec BaseRecord) error

	// SavePolicies inserts all records atomically, in order.
	SavePolicies(ctx context.Context, recs []BaseRecord) error

	// ReplacePolicies swaps the whole content for recs in one step. On
	// error the previous records are kept.
	ReplacePolicies(ctx context.Context, recs []BaseRecord) error

	// GetPolicy returns the record with the given number, or nil if absent.
	GetPolicy(ctx context.Context, policyNumber string) (*BaseRecord, error)

	// DeletePolicy removes the record with the given number.
	DeletePolicy(ctx context.Context, policyNumber string) error

	// Reset removes every record.
	Reset(ctx context.Context) error
}
