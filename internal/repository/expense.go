package repository

import (
	"context"
	"time"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"
	"backoffice-service/prometheus"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ExpenseRepository reads and writes expenses
type ExpenseRepository struct {
	store[model.Expense]
}

// NewExpenseRepository creates the expense repository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{store[model.Expense]{db: db, entity: "expense"}}
}

// Delete removes one expense row
func (r *ExpenseRepository) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := r.raw(ctx).Delete(&model.Expense{}, id)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "delete expense %d", id)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("expense %d not found", id)
	}
	return nil
}
