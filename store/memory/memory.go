// Package memory provides an in-memory maturity.PolicyStore.
package memory

import (
	"context"
	"sync"

	"github.com/warp/maturity-engine/maturity"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records []maturity.BaseRecord
	numbers map[string]bool
}

func NewMemory(records ...maturity.BaseRecord) *Memory {
	m := &Memory{numbers: make(map[string]bool)}
	for _, r := range records {
		m.appendLocked(r)
	}
	return m
}

// BaseRecords returns a copy of all records in insertion order.
func (m *Memory) BaseRecords(_ context.Context) ([]maturity.BaseRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]maturity.BaseRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

// SavePolicy adds a single record.
func (m *Memory) SavePolicy(_ context.Context, rec maturity.BaseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.PolicyNumber != "" && m.numbers[rec.PolicyNumber] {
		return maturity.ErrDuplicatePolicyNumber
	}
	m.appendLocked(rec)
	return nil
}

// SavePolicies adds multiple records atomically.
func (m *Memory) SavePolicies(_ context.Context, recs []maturity.BaseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := checkNumbers(m.numbers, recs); err != nil {
		return err
	}
	for _, r := range recs {
		m.appendLocked(r)
	}
	return nil
}

// ReplacePolicies swaps all records for recs under a single lock.
func (m *Memory) ReplacePolicies(_ context.Context, recs []maturity.BaseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := checkNumbers(nil, recs); err != nil {
		return err
	}
	m.records = nil
	m.numbers = make(map[string]bool, len(recs))
	for _, r := range recs {
		m.appendLocked(r)
	}
	return nil
}

// checkNumbers rejects recs that repeat a number or reuse one in taken.
func checkNumbers(taken map[string]bool, recs []maturity.BaseRecord) error {
	seen := make(map[string]bool, len(recs))
	for _, r := range recs {
		if r.PolicyNumber == "" {
			continue
		}
		if taken[r.PolicyNumber] || seen[r.PolicyNumber] {
			return maturity.ErrDuplicatePolicyNumber
		}
		seen[r.PolicyNumber] = true
	}
	return nil
}

func (m *Memory) GetPolicy(_ context.Context, policyNumber string) (*maturity.BaseRecord, error) {
	if policyNumber == "" {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.records {
		if m.records[i].PolicyNumber == policyNumber {
			rec := m.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// DeletePolicy removes a record by number. Records without a number
// cannot be addressed.
func (m *Memory) DeletePolicy(_ context.Context, policyNumber string) error {
	if policyNumber == "" {
		return maturity.ErrPolicyNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].PolicyNumber == policyNumber {
			m.records = append(m.records[:i], m.records[i+1:]...)
			delete(m.numbers, policyNumber)
			return nil
		}
	}
	return maturity.ErrPolicyNotFound
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = nil
	m.numbers = make(map[string]bool)
	return nil
}

// appendLocked appends a record. Caller must hold the lock.
func (m *Memory) appendLocked(rec maturity.BaseRecord) {
	m.records = append(m.records, rec)
	if rec.PolicyNumber != "" {
		m.numbers[rec.PolicyNumber] = true
	}
}

var _ maturity.PolicyStore = (*Memory)(nil)
