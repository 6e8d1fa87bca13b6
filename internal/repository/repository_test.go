package repository

import (
	"context"
	"strings"
	"testing"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type capturedQuery struct {
	sql  string
	vars []interface{}
}

// newDryRunDB builds statements without a server and records every query and update
func newDryRunDB(t *testing.T) (*gorm.DB, *[]capturedQuery) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "host=localhost user=test dbname=test sslmode=disable",
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var captured []capturedQuery
	capture := func(tx *gorm.DB) {
		captured = append(captured, capturedQuery{sql: tx.Statement.SQL.String(), vars: tx.Statement.Vars})
	}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_query", capture))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:capture_update", capture))
	return db, &captured
}

func findQuery(t *testing.T, captured []capturedQuery, fragment string) capturedQuery {
	t.Helper()
	for _, q := range captured {
		if strings.Contains(q.sql, fragment) {
			return q
		}
	}
	t.Fatalf("no query containing %q", fragment)
	return capturedQuery{}
}

func TestSearchBuildsCaseInsensitiveFilter(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewCustomerRepository(db)

	_, err := repo.Search(context.Background(), "  PéRez ", model.StatusActive)
	require.NoError(t, err)
	require.Len(t, *captured, 1)

	q := (*captured)[0]
	assert.Contains(t, q.sql, `FROM "customers"`)
	assert.Contains(t, q.sql, "status = $1")
	assert.Contains(t, q.sql, "LOWER(client_code) LIKE $2 OR LOWER(name) LIKE $3")
	assert.Contains(t, q.sql, "ORDER BY id")
	assert.Equal(t, model.StatusActive, q.vars[0])
	assert.Equal(t, "%pérez%", q.vars[1])
	assert.Len(t, q.vars, 6)
}

func TestSearchWithoutTermOnlyFiltersStatus(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewSupplierRepository(db)

	_, err := repo.Search(context.Background(), "", model.StatusSuspended)
	require.NoError(t, err)

	q := (*captured)[0]
	assert.NotContains(t, q.sql, "LIKE")
	assert.Equal(t, []interface{}{model.StatusSuspended}, q.vars)
}

func TestExistsExcludesCurrentRow(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewEmployeeRepository(db)

	_, err := repo.ExistsByEmail(context.Background(), "ana@shop.pe", 9)
	require.NoError(t, err)

	q := (*captured)[0]
	assert.Contains(t, q.sql, "SELECT count(*)")
	assert.Contains(t, q.sql, "email = $1")
	assert.Contains(t, q.sql, "id <> $2")
	assert.Equal(t, []interface{}{"ana@shop.pe", uint(9)}, q.vars)
}

func TestLatestCodeOrdersByNewestID(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewProductRepository(db)

	code, err := repo.LatestCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", code)

	q := (*captured)[0]
	assert.Contains(t, q.sql, `SELECT "product_code" FROM "products"`)
	assert.Contains(t, q.sql, "ORDER BY id DESC LIMIT")
}

func TestSaleSearchJoinsCustomers(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewSaleRepository(db)

	_, err := repo.Search(context.Background(), "ana", model.SaleCompleted)
	require.NoError(t, err)

	q := findQuery(t, *captured, "LEFT JOIN customers")
	assert.Contains(t, q.sql, "LEFT JOIN customers ON customers.id = sales.customer_id")
	assert.Contains(t, q.sql, "sales.status = $1")
	assert.Contains(t, q.sql, "LOWER(customers.surname) LIKE $4")
}

func TestUpdateStatusReportsMissingRow(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewStoreItemRepository(db)

	err := repo.UpdateStatus(context.Background(), 12, model.ItemInactive)
	assert.True(t, apperror.IsNotFound(err))

	q := (*captured)[0]
	assert.Contains(t, q.sql, `UPDATE "store_items" SET "status"=$1`)
	assert.Contains(t, q.sql, "id = $2")
}

func TestExpenseDeleteReportsMissingRow(t *testing.T) {
	db, captured := newDryRunDB(t)
	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("test:capture_delete", func(tx *gorm.DB) {
		*captured = append(*captured, capturedQuery{sql: tx.Statement.SQL.String(), vars: tx.Statement.Vars})
	}))
	repo := NewExpenseRepository(db)

	err := repo.Delete(context.Background(), 4)
	assert.True(t, apperror.IsNotFound(err))

	q := findQuery(t, *captured, "DELETE FROM")
	assert.Contains(t, q.sql, `DELETE FROM "expenses"`)
	assert.Contains(t, q.vars, uint(4))
}

func TestPurchaseLinesByPurchase(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewPurchaseDetailRepository(db)

	_, err := repo.FindByPurchase(context.Background(), 5)
	require.NoError(t, err)

	q := findQuery(t, *captured, "purchase_details")
	assert.Contains(t, q.sql, "purchase_id = $1")
	assert.Contains(t, q.sql, "ORDER BY id")
}
