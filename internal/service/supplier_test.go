package service

import (
	"context"
	"testing"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSuppliers struct {
	SupplierRepository
	rows map[uint]model.Supplier
}

func (m *memSuppliers) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, apperror.NotFound("supplier %d not found", id)
	}
	return &s, nil
}

func (m *memSuppliers) UpdateStatus(ctx context.Context, id uint, status string) error {
	s, ok := m.rows[id]
	if !ok {
		return apperror.NotFound("supplier %d not found", id)
	}
	s.Status = status
	m.rows[id] = s
	return nil
}

func (m *memSuppliers) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, s := range m.rows {
		counts[s.Status]++
	}
	return counts, nil
}

func TestSupplierLifecycle(t *testing.T) {
	repo := &memSuppliers{rows: map[uint]model.Supplier{
		1: {ID: 1, CompanyName: "Molinos SAC", Status: model.StatusActive},
		2: {ID: 2, CompanyName: "Lacteos SRL", Status: model.StatusActive},
		3: {ID: 3, CompanyName: "Dulces EIRL", Status: model.StatusInactive},
	}}
	svc := NewSupplierService(repo)
	ctx := context.Background()

	suspended, err := svc.Suspend(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuspended, suspended.Status)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SupplierSummary{Total: 3, Active: 1, Inactive: 1, Suspended: 1}, *summary)

	restored, err := svc.Restore(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, restored.Status)

	_, err = svc.Suspend(ctx, 99)
	assert.True(t, apperror.IsNotFound(err))
}
