package maturity

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classify derives the policy type from the first character of a policy
// number. Numbers with one character or fewer have no type. Unknown
// leading characters are kept as the type and fall through to the
// defaults of the fee and eligibility rules.
func Classify(policyNumber string) PolicyType {
	if utf8.RuneCountInString(policyNumber) <= 1 {
		return PolicyTypeNone
	}
	// An invalid leading byte decodes with size 1 and is kept as is.
	_, size := utf8.DecodeRuneInString(policyNumber)
	return PolicyType(policyNumber[:size])
}

// =============================================================================
// MANAGEMENT FEE
// =============================================================================

var managementFees = map[PolicyType]decimal.Decimal{
	PolicyTypeA: decimal.NewFromInt(3),
	PolicyTypeB: decimal.NewFromInt(5),
	PolicyTypeC: decimal.NewFromInt(7),
}

// ManagementFeePercentage returns the fee percentage deducted from premiums
// for a policy type. Unknown and missing types pay no fee.
func ManagementFeePercentage(t PolicyType) decimal.Decimal {
	if fee, ok := managementFees[t]; ok {
		return fee
	}
	return decimal.Zero
}

// =============================================================================
// DISCRETIONARY BONUS ELIGIBILITY
// =============================================================================

// BonusCutoffDate splits policies into pre-1990 and 1990-onwards for the
// eligibility rules.
var BonusCutoffDate = Date(1990, time.January, 1)

// BonusEligible applies the discretionary bonus rules for a policy type:
//
//	A: started strictly before 1990-01-01
//	B: holds membership
//	C: started on or after 1990-01-01 and holds membership
//
// Any other type is never eligible.
func BonusEligible(t PolicyType, startDate time.Time, membership bool) bool {
	start := truncateDay(startDate)

	switch t {
	case PolicyTypeA:
		return start.Before(BonusCutoffDate)
	case PolicyTypeB:
		return membership
	case PolicyTypeC:
		return !start.Before(BonusCutoffDate) && membership
	default:
		return false
	}
}
