package repository

import (
	"context"
	"time"

	"backoffice-service/internal/model"
	"backoffice-service/prometheus"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CustomerRepository persists customers
type CustomerRepository struct {
	store[model.Customer]
}

// NewCustomerRepository creates the customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{store[model.Customer]{db: db, entity: "customer"}}
}

// Search matches code, names, document number and email
func (r *CustomerRepository) Search(ctx context.Context, term, status string) ([]model.Customer, error) {
	return r.search(ctx, []string{"client_code", "name", "surname", "document_number", "email"}, term, status)
}

// FindByCode returns the customer with the given client code
func (r *CustomerRepository) FindByCode(ctx context.Context, code string) (*model.Customer, error) {
	return r.findOneBy(ctx, "client_code", code)
}

// ExistsByCode reports whether another customer uses code
func (r *CustomerRepository) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	return r.exists(ctx, "client_code", code, excludeID)
}

// ExistsByDocument reports whether another customer uses the document number
func (r *CustomerRepository) ExistsByDocument(ctx context.Context, document string, excludeID uint) (bool, error) {
	return r.exists(ctx, "document_number", document, excludeID)
}

// ExistsByEmail reports whether another customer uses email
func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

// LatestCode returns the most recently issued client code
func (r *CustomerRepository) LatestCode(ctx context.Context) (string, error) {
	return r.latestCode(ctx, "client_code")
}

// CountRegisteredSince counts customers registered on or after since
func (r *CustomerRepository) CountRegisteredSince(ctx context.Context, since model.Date) (int64, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())
	var count int64
	err := r.raw(ctx).Model(&model.Customer{}).Where("register_date >= ?", since).Count(&count).Error
	return count, errors.Wrap(err, "count new customers")
}
