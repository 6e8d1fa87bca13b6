package service

import (
	"context"
	"strings"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"

	"github.com/shopspring/decimal"
)

// Clock returns the current calendar date; tests replace it
type Clock func() model.Date

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func sumCounts(counts map[string]int64) int64 {
	var total int64
	for _, c := range counts {
		total += c
	}
	return total
}

// uniqueCheck is one advisory duplicate check run before an insert or update
type uniqueCheck struct {
	value   string
	exists  func(ctx context.Context, value string, excludeID uint) (bool, error)
	message string
}

// ensureUnique returns a Conflict for the first check whose value is already taken.
// Checks with an empty value are skipped. The storage unique indexes remain the
// source of truth when two requests race.
func ensureUnique(ctx context.Context, excludeID uint, checks ...uniqueCheck) error {
	for _, check := range checks {
		if check.value == "" {
			continue
		}
		taken, err := check.exists(ctx, check.value, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return apperror.Conflict(check.message, check.value)
		}
	}
	return nil
}

// requirePositive validates stock operation quantities
func requirePositive(field string, value int) error {
	if value <= 0 {
		return apperror.Validation("invalid "+field, map[string]string{field: "must be greater than 0"})
	}
	return nil
}

func requireNonNegative(field string, value decimal.Decimal) error {
	if value.IsNegative() {
		return apperror.Validation("invalid "+field, map[string]string{field: "must not be negative"})
	}
	return nil
}

// average divides sum by count, flooring the divisor at 1, rounded half up to 2 places
func average(sum decimal.Decimal, count int64) decimal.Decimal {
	if count < 1 {
		count = 1
	}
	return sum.DivRound(decimal.NewFromInt(count), 2)
}
