/*
Package fixtures provides named demo portfolios ("scenarios").

PURPOSE:
  Populates a policy store with realistic records for demos and tests.
  Each scenario is a YAML file embedded in the binary under scenarios/.

AVAILABLE SCENARIOS:
  reference:  Nine A/B/C policies around the 1990-01-01 bonus cutoff
  edge-cases: Unknown types, missing numbers, fractional amounts
  empty:      No policies at all

HOW LOADING WORKS:
  1. Parse and validate the scenario's policies
  2. Replace the store's content with them in one step (ReplacePolicies);
     a failed insert leaves the previous policies in place

ADDING NEW SCENARIOS:
  Drop a new YAML file into scenarios/ with id, name, description and
  policies. It is picked up automatically.

NOTE:
  Loading resets the store. Only use in development/demo environments.
*/
package fixtures

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/maturity-engine/maturity"
)

//go:embed scenarios/*.yaml
var scenarioFS embed.FS

const dateLayout = "2006-01-02"

// Scenario describes one demo portfolio.
type Scenario struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Policies    []PolicyYAML `yaml:"policies"`
}

// PolicyYAML is the file representation of a base record. Amounts are
// strings so they are parsed as exact decimals.
type PolicyYAML struct {
	PolicyNumber       string `yaml:"policy_number"`
	PolicyStartDate    string `yaml:"policy_start_date"`
	Premiums           string `yaml:"premiums"`
	Membership         bool   `yaml:"membership"`
	DiscretionaryBonus string `yaml:"discretionary_bonus"`
	UpliftPercentage   string `yaml:"uplift_percentage"`
}

// ToBaseRecord converts and validates the file representation.
func (p PolicyYAML) ToBaseRecord() (maturity.BaseRecord, error) {
	rec := maturity.BaseRecord{
		PolicyNumber: p.PolicyNumber,
		Membership:   p.Membership,
	}

	start, err := time.Parse(dateLayout, p.PolicyStartDate)
	if err != nil {
		return rec, fmt.Errorf("policy %q: invalid policy_start_date %q: %w", p.PolicyNumber, p.PolicyStartDate, err)
	}
	rec.PolicyStartDate = start

	fields := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"premiums", p.Premiums, &rec.Premiums},
		{"discretionary_bonus", p.DiscretionaryBonus, &rec.DiscretionaryBonus},
		{"uplift_percentage", p.UpliftPercentage, &rec.UpliftPercentage},
	}
	for _, f := range fields {
		if f.value == "" {
			*f.dst = decimal.Zero
			continue
		}
		d, err := decimal.NewFromString(f.value)
		if err != nil {
			return rec, fmt.Errorf("policy %q: invalid %s %q: %w", p.PolicyNumber, f.name, f.value, err)
		}
		*f.dst = d
	}
	return rec, nil
}

// BaseRecords converts every policy of the scenario.
func (s Scenario) BaseRecords() ([]maturity.BaseRecord, error) {
	out := make([]maturity.BaseRecord, 0, len(s.Policies))
	for _, p := range s.Policies {
		rec, err := p.ToBaseRecord()
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Parse decodes a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("scenario has no id")
	}
	return &s, nil
}

// List returns all embedded scenarios sorted by ID.
func List() ([]Scenario, error) {
	files, err := fs.Glob(scenarioFS, "scenarios/*.yaml")
	if err != nil {
		return nil, err
	}

	scenarios := make([]Scenario, 0, len(files))
	for _, name := range files {
		data, err := scenarioFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		s, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, *s)
	}
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].ID < scenarios[j].ID })
	return scenarios, nil
}

// Get returns the scenario with the given ID.
func Get(id string) (*Scenario, error) {
	scenarios, err := List()
	if err != nil {
		return nil, err
	}
	for i := range scenarios {
		if scenarios[i].ID == id {
			return &scenarios[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, id)
}

// Load replaces the content of store with the scenario's policies.
// It returns the number of policies written.
func Load(ctx context.Context, store maturity.PolicyStore, id string) (int, error) {
	s, err := Get(id)
	if err != nil {
		return 0, err
	}
	records, err := s.BaseRecords()
	if err != nil {
		return 0, err
	}

	if err := store.ReplacePolicies(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to load scenario %s: %w", id, err)
	}
	return len(records), nil
}
