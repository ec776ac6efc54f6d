package maturity

import (
	"github.com/shopspring/decimal"
)

// ValuePlaces is the number of decimal places a maturity value is rounded to.
const ValuePlaces = 2

// DeriveAndCalculate derives classification, fee and eligibility for one
// record and computes its maturity value. It never fails: missing or
// unrecognised inputs fall back to the rule defaults.
func DeriveAndCalculate(base BaseRecord) Record {
	rec := Record{BaseRecord: base}

	// Each step reads only fields populated by the steps before it.
	rec.PolicyType = Classify(rec.PolicyNumber)
	rec.ManagementFeePercentage = ManagementFeePercentage(rec.PolicyType)
	rec.BonusEligible = BonusEligible(rec.PolicyType, rec.PolicyStartDate, rec.Membership)

	rec.MaturityValue = CalculateMaturityValue(
		rec.Premiums,
		rec.ManagementFeePercentage,
		rec.DiscretionaryBonus,
		rec.BonusEligible,
		rec.UpliftPercentage,
	)
	return rec
}

// CalculateMaturityValue computes
//
//	((premiums - premiums*fee/100) + bonus) * (1 + uplift/100)
//
// where bonus counts only when eligible. Arithmetic is exact; the result is
// rounded once, to ValuePlaces, with banker's rounding (midpoint to even).
func CalculateMaturityValue(premiums, feePercentage, bonus decimal.Decimal, eligible bool, upliftPercentage decimal.Decimal) decimal.Decimal {
	// Shift(-2) divides by 100 without the precision cap of Div.
	feeValue := premiums.Mul(feePercentage.Shift(-2))
	upliftFactor := decimal.NewFromInt(1).Add(upliftPercentage.Shift(-2))

	bonusValue := decimal.Zero
	if eligible {
		bonusValue = bonus
	}

	value := premiums.Sub(feeValue).Add(bonusValue).Mul(upliftFactor)
	return value.RoundBank(ValuePlaces)
}

// ProcessAll derives every record in order. A nil or empty input yields an
// empty, non-nil slice.
func ProcessAll(records []BaseRecord) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, DeriveAndCalculate(r))
	}
	return out
}
