package maturity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/maturity-engine/maturity"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int) time.Time {
	return maturity.Date(year, month, day)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(expected).Equal(actual), "expected %s, got %s %v", expected, actual, msgAndArgs)
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		policyNumber string
		want         maturity.PolicyType
	}{
		{"type A", "A123", maturity.PolicyTypeA},
		{"type B", "B999", maturity.PolicyTypeB},
		{"type C", "C100001", maturity.PolicyTypeC},
		{"two characters", "Z1", maturity.PolicyType("Z")},
		{"lower case kept verbatim", "a123", maturity.PolicyType("a")},
		{"multi-byte first character", "Ä12", maturity.PolicyType("Ä")},
		{"single character", "A", maturity.PolicyTypeNone},
		{"single multi-byte character", "Ä", maturity.PolicyTypeNone},
		{"invalid leading byte", "\xffA1", maturity.PolicyType("\xff")},
		{"empty", "", maturity.PolicyTypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maturity.Classify(tt.policyNumber))
		})
	}
}

func TestClassify_TypeIsFirstCharacter(t *testing.T) {
	for _, n := range []string{"A1", "B22", "C333", "X9999", "99", "-A"} {
		got := maturity.Classify(n)
		assert.Equal(t, n[:1], string(got), "policy number %q", n)
	}
}

// =============================================================================
// MANAGEMENT FEE
// =============================================================================

func TestManagementFeePercentage(t *testing.T) {
	tests := []struct {
		policyType maturity.PolicyType
		want       string
	}{
		{maturity.PolicyTypeA, "3"},
		{maturity.PolicyTypeB, "5"},
		{maturity.PolicyTypeC, "7"},
		{maturity.PolicyType("Z"), "0"},
		{maturity.PolicyTypeNone, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.policyType.String(), func(t *testing.T) {
			assertDecimal(t, tt.want, maturity.ManagementFeePercentage(tt.policyType))
		})
	}
}

// =============================================================================
// BONUS ELIGIBILITY
// =============================================================================

func TestBonusEligible(t *testing.T) {
	before := date(1989, time.December, 31)
	cutoff := date(1990, time.January, 1)
	after := date(2000, time.January, 1)

	tests := []struct {
		name       string
		policyType maturity.PolicyType
		start      time.Time
		membership bool
		want       bool
	}{
		{"A before cutoff", maturity.PolicyTypeA, before, false, true},
		{"A on cutoff is excluded", maturity.PolicyTypeA, cutoff, true, false},
		{"A after cutoff", maturity.PolicyTypeA, after, true, false},
		{"B member", maturity.PolicyTypeB, after, true, true},
		{"B member before cutoff", maturity.PolicyTypeB, before, true, true},
		{"B non-member", maturity.PolicyTypeB, before, false, false},
		{"C member on cutoff is included", maturity.PolicyTypeC, cutoff, true, true},
		{"C member after cutoff", maturity.PolicyTypeC, after, true, true},
		{"C member before cutoff", maturity.PolicyTypeC, before, true, false},
		{"C non-member after cutoff", maturity.PolicyTypeC, after, false, false},
		{"unknown type", maturity.PolicyType("Z"), before, true, false},
		{"no type", maturity.PolicyTypeNone, before, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maturity.BonusEligible(tt.policyType, tt.start, tt.membership)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBonusEligible_IgnoresTimeOfDay(t *testing.T) {
	// GIVEN: Start dates carrying a time component
	lateOnNewYearsEve := time.Date(1989, time.December, 31, 23, 59, 59, 0, time.UTC)
	noonOnCutoff := time.Date(1990, time.January, 1, 12, 0, 0, 0, time.UTC)

	// THEN: Only the calendar day matters
	assert.True(t, maturity.BonusEligible(maturity.PolicyTypeA, lateOnNewYearsEve, false))
	assert.False(t, maturity.BonusEligible(maturity.PolicyTypeA, noonOnCutoff, false))
	assert.True(t, maturity.BonusEligible(maturity.PolicyTypeC, noonOnCutoff, true))
}

func TestBonusEligible_ComparesUTCDay(t *testing.T) {
	// GIVEN: A start time that is 1990-01-01 locally but 1989-12-31 in UTC
	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	start := time.Date(1990, time.January, 1, 0, 30, 0, 0, plusTwo)

	// THEN: The UTC calendar day decides
	assert.True(t, maturity.BonusEligible(maturity.PolicyTypeA, start, false))
	assert.False(t, maturity.BonusEligible(maturity.PolicyTypeC, start, true))

	rec := maturity.DeriveAndCalculate(maturity.BaseRecord{
		PolicyNumber:       "A1",
		PolicyStartDate:    start,
		Premiums:           dec("1000"),
		DiscretionaryBonus: dec("50"),
	})
	assert.True(t, rec.BonusEligible)
	assertDecimal(t, "1020", rec.MaturityValue)
}

// =============================================================================
// MATURITY VALUE
// =============================================================================

func TestDeriveAndCalculate_TypeA(t *testing.T) {
	// GIVEN: Type A policy started before 1990
	rec := maturity.DeriveAndCalculate(maturity.BaseRecord{
		PolicyNumber:       "A123",
		PolicyStartDate:    date(1985, time.January, 1),
		Premiums:           dec("1000"),
		Membership:         false,
		DiscretionaryBonus: dec("50"),
		UpliftPercentage:   dec("25"),
	})

	// THEN: fee 30, bonus 50, uplift 1.25 => ((1000-30)+50)*1.25
	assert.Equal(t, maturity.PolicyTypeA, rec.PolicyType)
	assertDecimal(t, "3", rec.ManagementFeePercentage)
	assert.True(t, rec.BonusEligible)
	assertDecimal(t, "1275", rec.MaturityValue)
	assert.Equal(t, "1275.00", rec.MaturityValue.StringFixed(2))
}

func TestDeriveAndCalculate_TypeB(t *testing.T) {
	rec := maturity.DeriveAndCalculate(maturity.BaseRecord{
		PolicyNumber:       "B999",
		PolicyStartDate:    date(2000, time.January, 1),
		Premiums:           dec("2000"),
		Membership:         true,
		DiscretionaryBonus: dec("100"),
		UpliftPercentage:   dec("10"),
	})

	assert.Equal(t, maturity.PolicyTypeB, rec.PolicyType)
	assertDecimal(t, "5", rec.ManagementFeePercentage)
	assert.True(t, rec.BonusEligible)
	assertDecimal(t, "2200", rec.MaturityValue)
}

func TestDeriveAndCalculate_TypeC(t *testing.T) {
	// fee 7% of 1500 = 105, bonus 200, no uplift
	rec := maturity.DeriveAndCalculate(maturity.BaseRecord{
		PolicyNumber:       "C500",
		PolicyStartDate:    date(1995, time.June, 15),
		Premiums:           dec("1500"),
		Membership:         true,
		DiscretionaryBonus: dec("200"),
		UpliftPercentage:   dec("0"),
	})

	assertDecimal(t, "7", rec.ManagementFeePercentage)
	assert.True(t, rec.BonusEligible)
	assertDecimal(t, "1595", rec.MaturityValue)
}

func TestDeriveAndCalculate_UnknownType(t *testing.T) {
	// GIVEN: A type with no rules, and every other field favourable
	rec := maturity.DeriveAndCalculate(maturity.BaseRecord{
		PolicyNumber:       "Z1",
		PolicyStartDate:    date(1980, time.January, 1),
		Premiums:           dec("1000"),
		Membership:         true,
		DiscretionaryBonus: dec("50"),
		UpliftPercentage:   dec("10"),
	})

	// THEN: No fee, no bonus
	assert.Equal(t, maturity.PolicyType("Z"), rec.PolicyType)
	assert.True(t, rec.ManagementFeePercentage.IsZero())
	assert.False(t, rec.BonusEligible)
	assertDecimal(t, "1100", rec.MaturityValue)
}

func TestDeriveAndCalculate_MissingPolicyNumber(t *testing.T) {
	rec := maturity.DeriveAndCalculate(maturity.BaseRecord{
		Premiums:           dec("100"),
		DiscretionaryBonus: dec("999"),
		UpliftPercentage:   dec("50"),
	})

	assert.True(t, rec.PolicyType.IsNone())
	assert.True(t, rec.ManagementFeePercentage.IsZero())
	assert.False(t, rec.BonusEligible)
	assertDecimal(t, "150", rec.MaturityValue)
}

func TestDeriveAndCalculate_ZeroValueRecord(t *testing.T) {
	rec := maturity.DeriveAndCalculate(maturity.BaseRecord{})

	assert.True(t, rec.PolicyType.IsNone())
	assert.True(t, rec.MaturityValue.IsZero())
}

func TestDeriveAndCalculate_CopiesBaseFields(t *testing.T) {
	base := maturity.BaseRecord{
		PolicyNumber:       "B42",
		PolicyStartDate:    date(2001, time.March, 3),
		Premiums:           dec("12.34"),
		Membership:         true,
		DiscretionaryBonus: dec("5.5"),
		UpliftPercentage:   dec("1.5"),
	}

	rec := maturity.DeriveAndCalculate(base)

	assert.Equal(t, base, rec.BaseRecord)
}

func TestCalculateMaturityValue_BankersRounding(t *testing.T) {
	tests := []struct {
		name     string
		premiums string
		want     string
	}{
		{"midpoint rounds down to even", "0.125", "0.12"},
		{"midpoint rounds up to even", "0.135", "0.14"},
		{"above midpoint", "0.1251", "0.13"},
		{"below midpoint", "0.1249", "0.12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maturity.CalculateMaturityValue(dec(tt.premiums), decimal.Zero, decimal.Zero, false, decimal.Zero)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestCalculateMaturityValue_RoundsOnceAtTheEnd(t *testing.T) {
	// 333.33 - 3% = 323.3301, * 1.005 = 324.9467505 => 324.95
	got := maturity.CalculateMaturityValue(dec("333.33"), dec("3"), decimal.Zero, false, dec("0.5"))
	assertDecimal(t, "324.95", got)
}

func TestCalculateMaturityValue_AlwaysTwoPlaces(t *testing.T) {
	inputs := []struct{ premiums, fee, bonus, uplift string }{
		{"1000", "3", "50", "25"},
		{"1", "7", "0.333", "33.3333"},
		{"98765.4321", "5", "12.345", "2.5"},
		{"0", "0", "0", "0"},
	}

	for _, in := range inputs {
		got := maturity.CalculateMaturityValue(dec(in.premiums), dec(in.fee), dec(in.bonus), true, dec(in.uplift))
		assert.True(t, got.Equal(got.Round(2)), "value %s has more than two places", got)

		again := maturity.CalculateMaturityValue(dec(in.premiums), dec(in.fee), dec(in.bonus), true, dec(in.uplift))
		assert.True(t, got.Equal(again), "calculation must be deterministic")
	}
}

func TestCalculateMaturityValue_BonusOnlyWhenEligible(t *testing.T) {
	withBonus := maturity.CalculateMaturityValue(dec("100"), decimal.Zero, dec("40"), true, decimal.Zero)
	withoutBonus := maturity.CalculateMaturityValue(dec("100"), decimal.Zero, dec("40"), false, decimal.Zero)

	assertDecimal(t, "140", withBonus)
	assertDecimal(t, "100", withoutBonus)
}

// =============================================================================
// BATCH
// =============================================================================

func TestProcessAll_Empty(t *testing.T) {
	for _, in := range [][]maturity.BaseRecord{nil, {}} {
		out := maturity.ProcessAll(in)
		require.NotNil(t, out)
		assert.Empty(t, out)
	}
}

func TestProcessAll_PreservesOrder(t *testing.T) {
	in := []maturity.BaseRecord{
		{PolicyNumber: "C3", Premiums: dec("3")},
		{PolicyNumber: "A1", Premiums: dec("1")},
		{PolicyNumber: ""},
		{PolicyNumber: "B2", Premiums: dec("2")},
	}

	out := maturity.ProcessAll(in)

	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].PolicyNumber, out[i].PolicyNumber)
		want := maturity.DeriveAndCalculate(in[i])
		assert.Equal(t, want.PolicyType, out[i].PolicyType)
		assert.True(t, want.MaturityValue.Equal(out[i].MaturityValue))
	}
}

// =============================================================================
// SOURCE
// =============================================================================

func TestLoad_WrapsSourceFailure(t *testing.T) {
	cause := errors.New("connection refused")
	src := maturity.SourceFunc(func(context.Context) ([]maturity.BaseRecord, error) {
		return nil, cause
	})

	_, err := maturity.Load(context.Background(), src)

	require.Error(t, err)
	assert.ErrorIs(t, err, maturity.ErrSourceUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestLoad_NilSource(t *testing.T) {
	_, err := maturity.Load(context.Background(), nil)
	assert.ErrorIs(t, err, maturity.ErrSourceRequired)
}

func TestLoad_StaticSource(t *testing.T) {
	records := []maturity.BaseRecord{{PolicyNumber: "A1"}}

	got, err := maturity.Load(context.Background(), maturity.StaticSource(records))

	require.NoError(t, err)
	assert.Equal(t, records, got)
}
