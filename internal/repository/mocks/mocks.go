// Package mocks provides testify mocks for the repository interfaces the
// domain services consume.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/plantfloor/tally/internal/domain/allocation"
	"github.com/plantfloor/tally/internal/domain/audit"
	"github.com/plantfloor/tally/internal/domain/classification"
	"github.com/plantfloor/tally/internal/domain/customer"
	"github.com/plantfloor/tally/internal/domain/entry"
	"github.com/plantfloor/tally/internal/domain/plant"
	"github.com/plantfloor/tally/internal/domain/session"
)

// PlantRepository is a mock for plant.Repository.
type PlantRepository struct {
	mock.Mock
}

func (m *PlantRepository) Create(ctx context.Context, p *plant.Plant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PlantRepository) Get(ctx context.Context, id string) (*plant.Plant, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*plant.Plant); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PlantRepository) List(ctx context.Context) ([]plant.Plant, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]plant.Plant); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PlantRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *PlantRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// CustomerRepository is a mock for customer.Repository.
type CustomerRepository struct {
	mock.Mock
}

func (m *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CustomerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]customer.Customer); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CustomerRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CustomerRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// ClassificationRepository is a mock for classification.Repository.
type ClassificationRepository struct {
	mock.Mock
}

func (m *ClassificationRepository) Create(ctx context.Context, wc *classification.WeightClassification) error {
	args := m.Called(ctx, wc)
	return args.Error(0)
}

func (m *ClassificationRepository) Get(ctx context.Context, id string) (*classification.WeightClassification, error) {
	args := m.Called(ctx, id)
	if wc, ok := args.Get(0).(*classification.WeightClassification); ok {
		return wc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClassificationRepository) Update(ctx context.Context, wc *classification.WeightClassification) error {
	args := m.Called(ctx, wc)
	return args.Error(0)
}

func (m *ClassificationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ClassificationRepository) ListByPlant(ctx context.Context, plantID string) ([]classification.WeightClassification, error) {
	args := m.Called(ctx, plantID)
	if list, ok := args.Get(0).([]classification.WeightClassification); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SessionRepository is a mock for session.Repository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, sess *session.TallySession) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, id string) (*session.TallySession, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*session.TallySession); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Update(ctx context.Context, sess *session.TallySession) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SessionRepository) List(ctx context.Context, opts session.ListOptions) ([]session.TallySession, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]session.TallySession); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Dates(ctx context.Context, opts session.ListOptions) ([]time.Time, error) {
	args := m.Called(ctx, opts)
	if dates, ok := args.Get(0).([]time.Time); ok {
		return dates, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) MaxSessionNumber(ctx context.Context, customerID string) (int, error) {
	args := m.Called(ctx, customerID)
	return args.Int(0), args.Error(1)
}

// AllocationRepository is a mock for allocation.Repository.
type AllocationRepository struct {
	mock.Mock
}

func (m *AllocationRepository) Create(ctx context.Context, a *allocation.AllocationDetails) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AllocationRepository) Get(ctx context.Context, id string) (*allocation.AllocationDetails, error) {
	args := m.Called(ctx, id)
	if a, ok := args.Get(0).(*allocation.AllocationDetails); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AllocationRepository) GetByPairing(ctx context.Context, sessionID, classificationID string) (*allocation.AllocationDetails, error) {
	args := m.Called(ctx, sessionID, classificationID)
	if a, ok := args.Get(0).(*allocation.AllocationDetails); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AllocationRepository) Update(ctx context.Context, a *allocation.AllocationDetails) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AllocationRepository) UpdateCounts(ctx context.Context, id string, tally, dispatcher int) error {
	args := m.Called(ctx, id, tally, dispatcher)
	return args.Error(0)
}

func (m *AllocationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AllocationRepository) ListBySession(ctx context.Context, sessionID string) ([]allocation.AllocationDetails, error) {
	args := m.Called(ctx, sessionID)
	if list, ok := args.Get(0).([]allocation.AllocationDetails); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// EntryRepository is a mock for entry.Repository and allocation.EntryRepository.
type EntryRepository struct {
	mock.Mock
}

func (m *EntryRepository) Create(ctx context.Context, e *entry.TallyLogEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *EntryRepository) Get(ctx context.Context, id string) (*entry.TallyLogEntry, error) {
	args := m.Called(ctx, id)
	if e, ok := args.Get(0).(*entry.TallyLogEntry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EntryRepository) GetMany(ctx context.Context, ids []string) ([]entry.TallyLogEntry, error) {
	args := m.Called(ctx, ids)
	if list, ok := args.Get(0).([]entry.TallyLogEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EntryRepository) Update(ctx context.Context, e *entry.TallyLogEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *EntryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *EntryRepository) ListBySession(ctx context.Context, sessionID string, role *allocation.Role) ([]entry.TallyLogEntry, error) {
	args := m.Called(ctx, sessionID, role)
	if list, ok := args.Get(0).([]entry.TallyLogEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EntryRepository) Reassign(ctx context.Context, id, targetSessionID string) error {
	args := m.Called(ctx, id, targetSessionID)
	return args.Error(0)
}

func (m *EntryRepository) ListLedgerEntries(ctx context.Context, sessionID string) ([]allocation.LedgerEntry, error) {
	args := m.Called(ctx, sessionID)
	if list, ok := args.Get(0).([]allocation.LedgerEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EntryRepository) CountByPairing(ctx context.Context, sessionID, classificationID string) (int, error) {
	args := m.Called(ctx, sessionID, classificationID)
	return args.Int(0), args.Error(1)
}

func (m *EntryRepository) DeleteByPairing(ctx context.Context, sessionID, classificationID string) (int, error) {
	args := m.Called(ctx, sessionID, classificationID)
	return args.Int(0), args.Error(1)
}

func (m *EntryRepository) DeleteByRole(ctx context.Context, sessionID string, role allocation.Role) (int, error) {
	args := m.Called(ctx, sessionID, role)
	return args.Int(0), args.Error(1)
}

// AuditRepository is a mock for audit.Repository.
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) Create(ctx context.Context, a *audit.EntryAudit) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AuditRepository) ListByEntry(ctx context.Context, entryID string) ([]audit.EntryAudit, error) {
	args := m.Called(ctx, entryID)
	if list, ok := args.Get(0).([]audit.EntryAudit); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// LedgerProvider is a mock for entry.LedgerProvider.
type LedgerProvider struct {
	mock.Mock
}

func (m *LedgerProvider) LedgerForSession(ctx context.Context, sessionID string) (*allocation.Ledger, error) {
	args := m.Called(ctx, sessionID)
	if l, ok := args.Get(0).(*allocation.Ledger); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

// CountRefresher is a mock for entry.CountRefresher.
type CountRefresher struct {
	mock.Mock
}

func (m *CountRefresher) RefreshCounts(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

// AuditLogger is a mock for entry.AuditLogger.
type AuditLogger struct {
	mock.Mock
}

func (m *AuditLogger) LogEntryEdit(ctx context.Context, entryID, actor string, changes map[string]audit.FieldChange) error {
	args := m.Called(ctx, entryID, actor, changes)
	return args.Error(0)
}
