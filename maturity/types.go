/*
Package maturity provides the maturity payout rule engine.

PURPOSE:
  Given the raw attributes of one insurance policy, derive its policy type,
  management fee percentage and discretionary bonus eligibility, then
  combine them into a maturity value. Everything in this package is pure:
  no I/O, no shared state, no errors on malformed input.

KEY CONCEPTS IN THIS FILE (types.go):
  - BaseRecord: Raw policy attributes as supplied by a data source
  - Record: BaseRecord plus the derived fields
  - PolicyType: Single character classification (or none)

DESIGN PRINCIPLES:
  1. Precision: All money uses decimal.Decimal, never float64
  2. Totality: Bad input degrades to defaults, it never fails a batch
  3. Independence: A record is derived from itself only

USAGE:
  rec := maturity.DeriveAndCalculate(maturity.BaseRecord{
      PolicyNumber:       "A100001",
      PolicyStartDate:    maturity.Date(1985, time.January, 1),
      Premiums:           decimal.NewFromInt(1000),
      DiscretionaryBonus: decimal.NewFromInt(50),
      UpliftPercentage:   decimal.NewFromInt(25),
  })
  // rec.MaturityValue == 1275.00

SEE ALSO:
  - rules.go: Classification, fee and eligibility rules
  - engine.go: Value calculation and batch processing
  - source.go: Data-access boundary
*/
package maturity

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// POLICY TYPE
// =============================================================================

// PolicyType is the classification encoded in the first character of a
// policy number. PolicyTypeNone means the type could not be determined.
type PolicyType string

const (
	PolicyTypeNone PolicyType = ""
	PolicyTypeA    PolicyType = "A"
	PolicyTypeB    PolicyType = "B"
	PolicyTypeC    PolicyType = "C"
)

// IsNone reports whether the type could not be derived.
func (t PolicyType) IsNone() bool { return t == PolicyTypeNone }

func (t PolicyType) String() string {
	if t.IsNone() {
		return "<none>"
	}
	return string(t)
}

// =============================================================================
// RECORDS
// =============================================================================

// BaseRecord holds the attributes of one policy as supplied by a Source.
// An empty PolicyNumber stands for a missing one.
type BaseRecord struct {
	PolicyNumber       string
	PolicyStartDate    time.Time
	Premiums           decimal.Decimal
	Membership         bool
	DiscretionaryBonus decimal.Decimal
	UpliftPercentage   decimal.Decimal
}

// Record is a BaseRecord with every derived field populated.
// Records are produced by DeriveAndCalculate and are read-only afterwards.
type Record struct {
	BaseRecord

	PolicyType              PolicyType
	ManagementFeePercentage decimal.Decimal
	BonusEligible           bool
	MaturityValue           decimal.Decimal
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// truncateDay reduces t to its calendar day in UTC.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
