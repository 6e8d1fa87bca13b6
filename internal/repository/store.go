package repository

import (
	"context"
	"strings"
	"time"

	"backoffice-service/internal/apperror"
	"backoffice-service/pkg/database"
	"backoffice-service/prometheus"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// store holds the queries every status-managed table shares
type store[T any] struct {
	db       *gorm.DB
	entity   string
	preloads []string
}

func (s store[T]) conn(ctx context.Context) *gorm.DB {
	q := database.Conn(ctx, s.db)
	for _, p := range s.preloads {
		q = q.Preload(p)
	}
	return q
}

// raw skips preloads, for counts and updates
func (s store[T]) raw(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, s.db)
}

// FindAll returns every row ordered by id
func (s store[T]) FindAll(ctx context.Context) ([]T, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var rows []T
	err := s.conn(ctx).Order("id").Find(&rows).Error
	return rows, errors.Wrapf(err, "list %s", s.entity)
}

// FindByID returns one row or a NotFound error
func (s store[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var row T
	err := s.conn(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("%s %d not found", s.entity, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s %d", s.entity, id)
	}
	return &row, nil
}

// FindByStatus returns the rows with the given status
func (s store[T]) FindByStatus(ctx context.Context, status string) ([]T, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var rows []T
	err := s.conn(ctx).Where("status = ?", status).Order("id").Find(&rows).Error
	return rows, errors.Wrapf(err, "list %s by status", s.entity)
}

// findOneBy returns the first row where column equals value, or NotFound
func (s store[T]) findOneBy(ctx context.Context, column string, value interface{}) (*T, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var row T
	err := s.conn(ctx).Where(column+" = ?", value).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("%s with %s %v not found", s.entity, column, value)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s by %s", s.entity, column)
	}
	return &row, nil
}

// search matches term as a case-insensitive substring of any column, filtered by status
func (s store[T]) search(ctx context.Context, columns []string, term, status string) ([]T, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	q := s.conn(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, column := range columns {
			clauses[i] = "LOWER(" + column + ") LIKE ?"
			args[i] = pattern
		}
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	var rows []T
	err := q.Order("id").Find(&rows).Error
	return rows, errors.Wrapf(err, "search %s", s.entity)
}

// Create inserts a new row
func (s store[T]) Create(ctx context.Context, row *T) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return errors.Wrapf(s.raw(ctx).Create(row).Error, "create %s", s.entity)
}

// Save updates every column of an existing row
func (s store[T]) Save(ctx context.Context, row *T) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return errors.Wrapf(s.raw(ctx).Save(row).Error, "update %s", s.entity)
}

// UpdateStatus sets the status column of one row
func (s store[T]) UpdateStatus(ctx context.Context, id uint, status string) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	result := s.raw(ctx).Model(new(T)).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "update %s %d status", s.entity, id)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("%s %d not found", s.entity, id)
	}
	return nil
}

// CountByStatus returns row counts keyed by status
func (s store[T]) CountByStatus(ctx context.Context) (map[string]int64, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.raw(ctx).Model(new(T)).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "count %s by status", s.entity)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// exists reports whether another row holds value in column; excludeID skips the row being updated
func (s store[T]) exists(ctx context.Context, column string, value interface{}, excludeID uint) (bool, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var count int64
	q := s.raw(ctx).Model(new(T)).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "check %s %s", s.entity, column)
	}
	return count > 0, nil
}

// latestCode returns the code of the most recently inserted row, or "" when empty
func (s store[T]) latestCode(ctx context.Context, column string) (string, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var codes []string
	err := s.raw(ctx).Model(new(T)).Order("id DESC").Limit(1).Pluck(column, &codes).Error
	if err != nil {
		return "", errors.Wrapf(err, "latest %s code", s.entity)
	}
	if len(codes) == 0 {
		return "", nil
	}
	return codes[0], nil
}
