package service

import (
	"context"

	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"
	"backoffice-service/prometheus"

	"go.uber.org/zap"
)

// CustomerRepository is the storage the customer service needs
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]model.Customer, error)
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
	FindByStatus(ctx context.Context, status string) ([]model.Customer, error)
	FindByCode(ctx context.Context, code string) (*model.Customer, error)
	Search(ctx context.Context, term, status string) ([]model.Customer, error)
	Create(ctx context.Context, customer *model.Customer) error
	Save(ctx context.Context, customer *model.Customer) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountRegisteredSince(ctx context.Context, since model.Date) (int64, error)
	ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error)
	ExistsByDocument(ctx context.Context, document string, excludeID uint) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	LatestCode(ctx context.Context) (string, error)
}

// CustomerService manages customers
type CustomerService struct {
	repo  CustomerRepository
	today Clock
}

// NewCustomerService creates the customer service
func NewCustomerService(repo CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo, today: model.Today}
}

func (s *CustomerService) List(ctx context.Context) ([]model.Customer, error) {
	return s.repo.FindAll(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*model.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CustomerService) GetByCode(ctx context.Context, code string) (*model.Customer, error) {
	return s.repo.FindByCode(ctx, code)
}

func (s *CustomerService) ListByStatus(ctx context.Context, status string) ([]model.Customer, error) {
	return s.repo.FindByStatus(ctx, status)
}

// Search looks up customers by text; status defaults to active
func (s *CustomerService) Search(ctx context.Context, term, status string) ([]model.Customer, error) {
	return s.repo.Search(ctx, term, defaultString(status, model.StatusActive))
}

// Create registers a customer, issuing the next client code when none is given
func (s *CustomerService) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	log := logger.FromContext(ctx)

	if customer.ClientCode == "" {
		code, err := s.NextCode(ctx)
		if err != nil {
			return nil, err
		}
		customer.ClientCode = code
	}

	if err := s.checkUnique(ctx, customer, 0); err != nil {
		log.Warn("Customer already exists", zap.String("client_code", customer.ClientCode), zap.Error(err))
		return nil, err
	}

	customer.ID = 0
	if customer.RegisterDate.IsZero() {
		customer.RegisterDate = s.today()
	}
	customer.Status = defaultString(customer.Status, model.StatusActive)

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	prometheus.RecordOperation("customer", "create")
	log.Info("Customer created",
		zap.Uint("customer_id", customer.ID),
		zap.String("client_code", customer.ClientCode))
	return customer, nil
}

// Update overwrites the editable fields of a customer
func (s *CustomerService) Update(ctx context.Context, id uint, changes *model.Customer) (*model.Customer, error) {
	log := logger.FromContext(ctx)

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if changes.ClientCode == "" {
		changes.ClientCode = customer.ClientCode
	}
	if err := s.checkUnique(ctx, changes, id); err != nil {
		log.Warn("Customer update conflicts with another customer", zap.Uint("customer_id", id), zap.Error(err))
		return nil, err
	}

	customer.ClientCode = changes.ClientCode
	customer.DocumentType = changes.DocumentType
	customer.DocumentNumber = changes.DocumentNumber
	customer.Name = changes.Name
	customer.Surname = changes.Surname
	customer.DateBirth = changes.DateBirth
	customer.Phone = changes.Phone
	customer.Email = changes.Email
	customer.LocationID = changes.LocationID
	if !changes.RegisterDate.IsZero() {
		customer.RegisterDate = changes.RegisterDate
	}
	customer.Status = defaultString(changes.Status, customer.Status)

	if err := s.repo.Save(ctx, customer); err != nil {
		return nil, err
	}

	prometheus.RecordOperation("customer", "update")
	log.Info("Customer updated", zap.Uint("customer_id", id))
	return customer, nil
}

// Delete marks the customer inactive
func (s *CustomerService) Delete(ctx context.Context, id uint) (*model.Customer, error) {
	return s.setStatus(ctx, id, model.StatusInactive, "delete")
}

// Restore marks the customer active again
func (s *CustomerService) Restore(ctx context.Context, id uint) (*model.Customer, error) {
	return s.setStatus(ctx, id, model.StatusActive, "restore")
}

func (s *CustomerService) setStatus(ctx context.Context, id uint, status, operation string) (*model.Customer, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("customer", operation)
	logger.FromContext(ctx).Info("Customer status changed", zap.Uint("customer_id", id), zap.String("status", status))
	return s.repo.FindByID(ctx, id)
}

// Summary counts customers by status and those registered this month
func (s *CustomerService) Summary(ctx context.Context) (*model.CustomerSummary, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	newThisMonth, err := s.repo.CountRegisteredSince(ctx, s.today().FirstOfMonth())
	if err != nil {
		return nil, err
	}
	return &model.CustomerSummary{
		Total:        sumCounts(counts),
		Active:       counts[model.StatusActive],
		Inactive:     counts[model.StatusInactive],
		NewThisMonth: newThisMonth,
	}, nil
}

func (s *CustomerService) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return s.repo.ExistsByCode(ctx, code, 0)
}

func (s *CustomerService) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	return s.repo.ExistsByDocument(ctx, document, 0)
}

func (s *CustomerService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email, 0)
}

// NextCode returns the client code that follows the latest issued one
func (s *CustomerService) NextCode(ctx context.Context) (string, error) {
	latest, err := s.repo.LatestCode(ctx)
	if err != nil {
		return "", err
	}
	return NextCode(CustomerCodePrefix, latest), nil
}

func (s *CustomerService) checkUnique(ctx context.Context, c *model.Customer, excludeID uint) error {
	return ensureUnique(ctx, excludeID,
		uniqueCheck{c.ClientCode, s.repo.ExistsByCode, "customer with code %s already exists"},
		uniqueCheck{c.DocumentNumber, s.repo.ExistsByDocument, "customer with document number %s already exists"},
		uniqueCheck{c.Email, s.repo.ExistsByEmail, "customer with email %s already exists"},
	)
}
