package repository

import (
	"context"

	"backoffice-service/internal/model"

	"gorm.io/gorm"
)

// SupplierRepository persists suppliers
type SupplierRepository struct {
	store[model.Supplier]
}

// NewSupplierRepository creates the supplier repository
func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{store[model.Supplier]{db: db, entity: "supplier"}}
}

// Search matches company, contact, email and category
func (r *SupplierRepository) Search(ctx context.Context, term, status string) ([]model.Supplier, error) {
	return r.search(ctx, []string{"company_name", "contact_name", "email", "category"}, term, status)
}

// ExistsByEmail reports whether another supplier uses email
func (r *SupplierRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}
