/*
source.go - Data-access boundary for base policy records

PURPOSE:
  The engine does not care where policy records come from. Anything that
  can hand back a finite, possibly empty, slice of BaseRecord satisfies
  Source: a SQLite table, a fixture file, an in-memory slice.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite-backed policy table
  - store/memory/memory.go: In-memory for tests and demos
  - SourceFunc: Adapter for a plain function

EXAMPLE:
  src := maturity.SourceFunc(func(ctx context.Context) ([]maturity.BaseRecord, error) {
      return fixtures, nil
  })
  records, err := src.BaseRecords(ctx)

SEE ALSO:
  - errors.go: ErrSourceUnavailable
  - batch/runner.go: Consumes a Source
*/
package maturity

import "context"

// Source supplies the base records for a calculation run.
type Source interface {
	// BaseRecords returns every policy record to be valued.
	BaseRecords(ctx context.Context) ([]BaseRecord, error)
}

// SourceFunc adapts an ordinary function to a Source.
type SourceFunc func(ctx context.Context) ([]BaseRecord, error)

// BaseRecords calls f(ctx).
func (f SourceFunc) BaseRecords(ctx context.Context) ([]BaseRecord, error) {
	return f(ctx)
}

// StaticSource returns a Source that always yields the given records.
func StaticSource(records []BaseRecord) Source {
	return SourceFunc(func(context.Context) ([]BaseRecord, error) {
		return records, nil
	})
}

// Load fetches records from src and wraps any failure with
// ErrSourceUnavailable.
func Load(ctx context.Context, src Source) ([]BaseRecord, error) {
	if src == nil {
		return nil, ErrSourceRequired
	}
	records, err := src.BaseRecords(ctx)
	if err != nil {
		return nil, &SourceError{Err: err}
	}
	return records, nil
}
