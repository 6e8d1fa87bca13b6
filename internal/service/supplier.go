package service

import (
	"context"

	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"
	"backoffice-service/prometheus"

	"go.uber.org/zap"
)

// SupplierRepository is the storage the supplier service needs
type SupplierRepository interface {
	FindAll(ctx context.Context) ([]model.Supplier, error)
	FindByID(ctx context.Context, id uint) (*model.Supplier, error)
	FindByStatus(ctx context.Context, status string) ([]model.Supplier, error)
	Search(ctx context.Context, term, status string) ([]model.Supplier, error)
	Create(ctx context.Context, supplier *model.Supplier) error
	Save(ctx context.Context, supplier *model.Supplier) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
}

// SupplierService manages suppliers
type SupplierService struct {
	repo SupplierRepository
}

// NewSupplierService creates the supplier service
func NewSupplierService(repo SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

func (s *SupplierService) List(ctx context.Context) ([]model.Supplier, error) {
	return s.repo.FindAll(ctx)
}

func (s *SupplierService) Get(ctx context.Context, id uint) (*model.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SupplierService) ListByStatus(ctx context.Context, status string) ([]model.Supplier, error) {
	return s.repo.FindByStatus(ctx, status)
}

func (s *SupplierService) Search(ctx context.Context, term, status string) ([]model.Supplier, error) {
	return s.repo.Search(ctx, term, defaultString(status, model.StatusActive))
}

func (s *SupplierService) Create(ctx context.Context, supplier *model.Supplier) (*model.Supplier, error) {
	log := logger.FromContext(ctx)

	if err := s.checkUnique(ctx, supplier, 0); err != nil {
		log.Warn("Supplier already exists", zap.String("email", supplier.Email), zap.Error(err))
		return nil, err
	}

	supplier.ID = 0
	supplier.Status = defaultString(supplier.Status, model.StatusActive)
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	prometheus.RecordOperation("supplier", "create")
	log.Info("Supplier created", zap.Uint("supplier_id", supplier.ID), zap.String("company_name", supplier.CompanyName))
	return supplier, nil
}

func (s *SupplierService) Update(ctx context.Context, id uint, changes *model.Supplier) (*model.Supplier, error) {
	log := logger.FromContext(ctx)

	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, changes, id); err != nil {
		log.Warn("Supplier update conflicts with another supplier", zap.Uint("supplier_id", id), zap.Error(err))
		return nil, err
	}

	supplier.CompanyName = changes.CompanyName
	supplier.ContactName = changes.ContactName
	supplier.Phone = changes.Phone
	supplier.Email = changes.Email
	supplier.Address = changes.Address
	supplier.Category = changes.Category
	supplier.PaymentTerms = changes.PaymentTerms
	supplier.LocationID = changes.LocationID
	supplier.Status = defaultString(changes.Status, supplier.Status)

	if err := s.repo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	prometheus.RecordOperation("supplier", "update")
	log.Info("Supplier updated", zap.Uint("supplier_id", id))
	return supplier, nil
}

func (s *SupplierService) Delete(ctx context.Context, id uint) (*model.Supplier, error) {
	return s.setStatus(ctx, id, model.StatusInactive, "delete")
}

func (s *SupplierService) Restore(ctx context.Context, id uint) (*model.Supplier, error) {
	return s.setStatus(ctx, id, model.StatusActive, "restore")
}

// Suspend blocks a supplier without deleting it
func (s *SupplierService) Suspend(ctx context.Context, id uint) (*model.Supplier, error) {
	return s.setStatus(ctx, id, model.StatusSuspended, "suspend")
}

func (s *SupplierService) setStatus(ctx context.Context, id uint, status, operation string) (*model.Supplier, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("supplier", operation)
	logger.FromContext(ctx).Info("Supplier status changed", zap.Uint("supplier_id", id), zap.String("status", status))
	return s.repo.FindByID(ctx, id)
}

func (s *SupplierService) Summary(ctx context.Context) (*model.SupplierSummary, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &model.SupplierSummary{
		Total:     sumCounts(counts),
		Active:    counts[model.StatusActive],
		Inactive:  counts[model.StatusInactive],
		Suspended: counts[model.StatusSuspended],
	}, nil
}

func (s *SupplierService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email, 0)
}

func (s *SupplierService) checkUnique(ctx context.Context, supplier *model.Supplier, excludeID uint) error {
	return ensureUnique(ctx, excludeID,
		uniqueCheck{supplier.Email, s.repo.ExistsByEmail, "supplier with email %s already exists"},
	)
}
