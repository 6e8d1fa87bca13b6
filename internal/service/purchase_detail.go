package service

import (
	"context"

	"backoffice-service/internal/model"
)

// PurchaseDetailRepository is the storage the purchase line lookups need
type PurchaseDetailRepository interface {
	FindAll(ctx context.Context) ([]model.PurchaseDetail, error)
	FindByID(ctx context.Context, id uint) (*model.PurchaseDetail, error)
	FindByPurchase(ctx context.Context, purchaseID uint) ([]model.PurchaseDetail, error)
}

// PurchaseFinder resolves the purchase a line belongs to
type PurchaseFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Purchase, error)
}

// PurchaseDetailService reads purchase lines; they are written through PurchaseService only
type PurchaseDetailService struct {
	repo      PurchaseDetailRepository
	purchases PurchaseFinder
}

func NewPurchaseDetailService(repo PurchaseDetailRepository, purchases PurchaseFinder) *PurchaseDetailService {
	return &PurchaseDetailService{repo: repo, purchases: purchases}
}

func (s *PurchaseDetailService) List(ctx context.Context) ([]model.PurchaseDetail, error) {
	return s.repo.FindAll(ctx)
}

func (s *PurchaseDetailService) Get(ctx context.Context, id uint) (*model.PurchaseDetail, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByPurchase returns the lines of an existing purchase
func (s *PurchaseDetailService) ListByPurchase(ctx context.Context, purchaseID uint) ([]model.PurchaseDetail, error) {
	if _, err := s.purchases.FindByID(ctx, purchaseID); err != nil {
		return nil, err
	}
	return s.repo.FindByPurchase(ctx, purchaseID)
}
