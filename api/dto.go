/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's records from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY FORMAT:
  Monetary values and percentages travel as strings ("1275.00") so no
  client ever sees a float. Dates are YYYY-MM-DD.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/maturity-engine/batch"
	"github.com/warp/maturity-engine/fixtures"
	"github.com/warp/maturity-engine/maturity"
)

const dateLayout = "2006-01-02"

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PolicyDTO is a base record in API responses.
type PolicyDTO struct {
	PolicyNumber       string `json:"policy_number"`
	PolicyStartDate    string `json:"policy_start_date"`
	Premiums           string `json:"premiums"`
	Membership         bool   `json:"membership"`
	DiscretionaryBonus string `json:"discretionary_bonus"`
	UpliftPercentage   string `json:"uplift_percentage"`
}

// CreatePolicyRequest is the request to add a policy.
type CreatePolicyRequest struct {
	PolicyNumber       string `json:"policy_number"`
	PolicyStartDate    string `json:"policy_start_date"`
	Premiums           string `json:"premiums"`
	Membership         bool   `json:"membership"`
	DiscretionaryBonus string `json:"discretionary_bonus"`
	UpliftPercentage   string `json:"uplift_percentage"`
}

// MaturityRecordDTO is a fully derived record.
type MaturityRecordDTO struct {
	PolicyDTO
	PolicyType              *string `json:"policy_type"` // null when undeterminable
	ManagementFeePercentage string  `json:"management_fee_percentage"`
	BonusEligible           bool    `json:"bonus_eligible"`
	MaturityValue           string  `json:"maturity_value"`
}

// MaturityRunDTO reports a calculation run: the derived records plus
// whether the results document was written.
type MaturityRunDTO struct {
	RunID       string              `json:"run_id,omitempty"`
	Exported    bool                `json:"exported"`
	ExportPath  string              `json:"export_path,omitempty"`
	ExportError string              `json:"export_error,omitempty"`
	DurationMS  int64               `json:"duration_ms"`
	Records     []MaturityRecordDTO `json:"records"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Policies    int    `json:"policies"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPolicyDTO(r maturity.BaseRecord) PolicyDTO {
	return PolicyDTO{
		PolicyNumber:       r.PolicyNumber,
		PolicyStartDate:    r.PolicyStartDate.Format(dateLayout),
		Premiums:           r.Premiums.String(),
		Membership:         r.Membership,
		DiscretionaryBonus: r.DiscretionaryBonus.String(),
		UpliftPercentage:   r.UpliftPercentage.String(),
	}
}

func toMaturityRecordDTO(r maturity.Record) MaturityRecordDTO {
	dto := MaturityRecordDTO{
		PolicyDTO:               toPolicyDTO(r.BaseRecord),
		ManagementFeePercentage: r.ManagementFeePercentage.String(),
		BonusEligible:           r.BonusEligible,
		MaturityValue:           r.MaturityValue.StringFixed(maturity.ValuePlaces),
	}
	if !r.PolicyType.IsNone() {
		pt := string(r.PolicyType)
		dto.PolicyType = &pt
	}
	return dto
}

func toMaturityRecordDTOs(records []maturity.Record) []MaturityRecordDTO {
	dtos := make([]MaturityRecordDTO, len(records))
	for i, r := range records {
		dtos[i] = toMaturityRecordDTO(r)
	}
	return dtos
}

func toRunDTO(res *batch.Result, exportErr error) MaturityRunDTO {
	dto := MaturityRunDTO{
		RunID:      res.RunID,
		Exported:   res.Exported,
		ExportPath: res.ExportPath,
		DurationMS: res.Duration.Milliseconds(),
		Records:    toMaturityRecordDTOs(res.Records),
	}
	if exportErr != nil {
		dto.ExportError = exportErr.Error()
	}
	return dto
}

func toScenarioDTO(s fixtures.Scenario) ScenarioDTO {
	return ScenarioDTO{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Policies:    len(s.Policies),
	}
}

// toBaseRecord validates a create request. Amounts default to zero when
// omitted; the start date is required.
func (req CreatePolicyRequest) toBaseRecord() (maturity.BaseRecord, error) {
	rec := maturity.BaseRecord{
		PolicyNumber: strings.TrimSpace(req.PolicyNumber),
		Membership:   req.Membership,
	}

	start, err := time.Parse(dateLayout, req.PolicyStartDate)
	if err != nil {
		return rec, fmt.Errorf("invalid policy_start_date %q, expected YYYY-MM-DD", req.PolicyStartDate)
	}
	rec.PolicyStartDate = start

	if rec.Premiums, err = parseAmount("premiums", req.Premiums); err != nil {
		return rec, err
	}
	if rec.DiscretionaryBonus, err = parseAmount("discretionary_bonus", req.DiscretionaryBonus); err != nil {
		return rec, err
	}
	if rec.UpliftPercentage, err = parseAmount("uplift_percentage", req.UpliftPercentage); err != nil {
		return rec, err
	}
	return rec, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", field, s)
	}
	return d, nil
}
