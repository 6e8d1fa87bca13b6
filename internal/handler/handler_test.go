package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"
	"backoffice-service/internal/report"
	"backoffice-service/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

type stubCustomers struct {
	CustomerService
	created *model.Customer
	err     error
	status  string
}

func (s *stubCustomers) Get(ctx context.Context, id uint) (*model.Customer, error) {
	if id != 1 {
		return nil, apperror.NotFound("customer %d not found", id)
	}
	return &model.Customer{ID: 1, ClientCode: "C001", Name: "Ana"}, nil
}

func (s *stubCustomers) ListByStatus(ctx context.Context, status string) ([]model.Customer, error) {
	s.status = status
	return []model.Customer{}, nil
}

func (s *stubCustomers) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = c
	c.ID = 5
	c.ClientCode = "C005"
	return c, nil
}

func (s *stubCustomers) Delete(ctx context.Context, id uint) (*model.Customer, error) {
	return &model.Customer{ID: id, Status: model.StatusInactive}, nil
}

func (s *stubCustomers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return email == "ana@example.com", nil
}

func (s *stubCustomers) NextCode(ctx context.Context) (string, error) {
	return "C006", nil
}

type stubReports struct {
	ReportService
	err error
}

func (s stubReports) CustomerReport(ctx context.Context) (*report.File, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &report.File{Name: "reporte-de-clientes-2024-03-15.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.3")}, nil
}

func (s stubReports) SaleReceipt(ctx context.Context, id uint) (*report.File, error) {
	return nil, apperror.NotFound("sale %d not found", id)
}

const validCustomer = `{
	"document_type": "DNI",
	"document_number": "12345678",
	"name": "Ana",
	"surname": "Torres",
	"date_birth": "1990-05-01",
	"phone": "999888777",
	"email": "ana@example.com",
	"location_id": 3
}`

func customerEcho(svc *stubCustomers, reports ReportService) *echo.Echo {
	e := newEcho()
	NewCustomerHandler(svc, reports).Register(e.Group("/v1/api/customer"))
	return e
}

func TestCustomerCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubCustomers{}
		rec := do(customerEcho(svc, stubReports{}), http.MethodPost, "/v1/api/customer/save", validCustomer)

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, svc.created)
		assert.Equal(t, model.NewDate(1990, 5, 1), svc.created.DateBirth)
		assert.Equal(t, uint(3), svc.created.LocationID)
		assert.Equal(t, "C005", decode(t, rec)["client_code"])
	})

	t.Run("field errors", func(t *testing.T) {
		svc := &stubCustomers{}
		rec := do(customerEcho(svc, stubReports{}), http.MethodPost, "/v1/api/customer/save",
			`{"document_type":"DNI","name":"Ana","email":"not-an-email","location_id":3}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		fields := decode(t, rec)["fields"].(map[string]interface{})
		assert.Equal(t, "is required", fields["document_number"])
		assert.Equal(t, "must be a valid email", fields["email"])
		assert.Equal(t, "is required", fields["date_birth"])
		assert.Nil(t, svc.created)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(customerEcho(&stubCustomers{}, stubReports{}), http.MethodPost, "/v1/api/customer/save", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		svc := &stubCustomers{err: apperror.Conflict("customer with email %s already exists", "ana@example.com")}
		rec := do(customerEcho(svc, stubReports{}), http.MethodPost, "/v1/api/customer/save", validCustomer)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "customer with email ana@example.com already exists", decode(t, rec)["error"])
	})

	t.Run("internal errors are not leaked", func(t *testing.T) {
		svc := &stubCustomers{err: errors.New("pq: connection refused")}
		rec := do(customerEcho(svc, stubReports{}), http.MethodPost, "/v1/api/customer/save", validCustomer)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", decode(t, rec)["error"])
	})
}

func TestCustomerRoutes(t *testing.T) {
	svc := &stubCustomers{}
	e := customerEcho(svc, stubReports{})

	rec := do(e, http.MethodGet, "/v1/api/customer/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/v1/api/customer/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/v1/api/customer/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/v1/api/customer/status/I", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusInactive, svc.status)

	rec = do(e, http.MethodGet, "/v1/api/customer/status/X", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPatch, "/v1/api/customer/delete/4", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusInactive, decode(t, rec)["status"])

	rec = do(e, http.MethodGet, "/v1/api/customer/exists/email/ana@example.com", "")
	assert.Equal(t, "true", strings.TrimSpace(rec.Body.String()))

	rec = do(e, http.MethodGet, "/v1/api/customer/generate-code", "")
	assert.JSONEq(t, `{"code":"C006"}`, rec.Body.String())
}

func TestReportDownload(t *testing.T) {
	t.Run("attachment", func(t *testing.T) {
		rec := do(customerEcho(&stubCustomers{}, stubReports{}), http.MethodGet, "/v1/api/customer/pdf", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, `attachment; filename="reporte-de-clientes-2024-03-15.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
		assert.Equal(t, "%PDF-1.3", rec.Body.String())
	})

	t.Run("renderer failure", func(t *testing.T) {
		reports := stubReports{err: apperror.External(errors.New("engine crashed"), "could not generate customer report")}
		rec := do(customerEcho(&stubCustomers{}, reports), http.MethodGet, "/v1/api/customer/pdf", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, rec.Header().Get(echo.HeaderContentDisposition))
		assert.NotContains(t, rec.Body.String(), "engine crashed")
	})
}

type stubProducts struct {
	ProductService
	added int
}

func (s *stubProducts) AddStock(ctx context.Context, id uint, quantity int) (*model.Product, error) {
	if quantity <= 0 {
		return nil, apperror.Validation("invalid quantity", map[string]string{"quantity": "must be greater than 0"})
	}
	s.added = quantity
	return &model.Product{ID: id, Stock: 10 + quantity}, nil
}

func (s *stubProducts) SetStock(ctx context.Context, id uint, stock int) (*model.Product, error) {
	return &model.Product{ID: id, Stock: stock}, nil
}

func TestProductStockRoutes(t *testing.T) {
	svc := &stubProducts{}
	e := newEcho()
	NewProductHandler(svc, stubReports{}).Register(e.Group("/v1/api/product"))

	rec := do(e, http.MethodPut, "/v1/api/product/2/add-stock?quantity=5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.added)
	assert.Equal(t, float64(15), decode(t, rec)["stock"])

	rec = do(e, http.MethodPut, "/v1/api/product/2/add-stock", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPut, "/v1/api/product/2/add-stock?quantity=five", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPut, "/v1/api/product/2/add-stock?quantity=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "must be greater than 0", decode(t, rec)["fields"].(map[string]interface{})["quantity"])

	rec = do(e, http.MethodPut, "/v1/api/product/2/stock?newStock=7", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), decode(t, rec)["stock"])
}

type stubSales struct {
	SaleService
	input *service.SaleInput
}

func (s *stubSales) Create(ctx context.Context, input service.SaleInput) (*model.Sale, error) {
	s.input = &input
	return &model.Sale{ID: 1, SaleCode: "V001", Total: decimal.RequireFromString("25.00")}, nil
}

func TestSaleCreate(t *testing.T) {
	svc := &stubSales{}
	e := newEcho()
	NewSaleHandler(svc, stubReports{}).Register(e.Group("/v1/api/sale"))

	t.Run("valid", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/v1/api/sale/save", `{
			"customer_id": 1, "employee_id": 2, "payment_method": "Efectivo",
			"details": [{"product_id": 1, "quantity": 2, "unit_price": "10.00"}, {"product_id": 2, "quantity": 1, "unit_price": 5}]
		}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, svc.input)
		require.Len(t, svc.input.Details, 2)
		assert.Equal(t, "5", svc.input.Details[1].UnitPrice.String())
	})

	t.Run("line errors", func(t *testing.T) {
		svc.input = nil
		rec := do(e, http.MethodPost, "/v1/api/sale/save", `{
			"customer_id": 1, "employee_id": 2, "payment_method": "Efectivo", "status": "Cancelado",
			"details": [{"product_id": 1, "quantity": 0, "unit_price": "0"}]
		}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		fields := decode(t, rec)["fields"].(map[string]interface{})
		assert.Equal(t, "must be at least 1", fields["details[0].quantity"])
		assert.Equal(t, "must be greater than 0", fields["details[0].unit_price"])
		assert.Equal(t, "must be one of Completado Pendiente", fields["status"])
		assert.Nil(t, svc.input)
	})

	t.Run("no lines", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/v1/api/sale/save", `{"customer_id": 1, "employee_id": 2, "payment_method": "Efectivo", "details": []}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec)["fields"], "details")
	})

	t.Run("receipt of unknown sale", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/v1/api/sale/pdf/42", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func (s *stubSales) RemoveLine(ctx context.Context, saleID, lineID uint) (*model.Sale, error) {
	if lineID != 2 {
		return nil, apperror.NotFound("line %d not found in sale %d", lineID, saleID)
	}
	return &model.Sale{ID: saleID, Total: decimal.RequireFromString("20.00"),
		Details: []model.SaleDetail{{ID: 1, SaleID: saleID, ProductID: 1, Quantity: 2}}}, nil
}

func TestSaleRemoveLine(t *testing.T) {
	e := newEcho()
	NewSaleHandler(&stubSales{}, stubReports{}).Register(e.Group("/v1/api/sale"))

	rec := do(e, http.MethodDelete, "/v1/api/sale/1/details/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "20", body["total"])
	assert.Len(t, body["details"], 1)

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodDelete, "/v1/api/sale/1/details/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodDelete, "/v1/api/sale/1/details/x", "").Code)
}

type stubAuth struct {
	AuthService
}

func (stubAuth) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	if password != "secret" {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	return &service.LoginResult{Token: "signed", User: &model.User{ID: 1, Username: username, Role: model.RoleAdmin}}, nil
}

// route wiring only; any call panics through the nil embedded service
type (
	nopEmployees       struct{ EmployeeService }
	nopSuppliers       struct{ SupplierService }
	nopStoreItems      struct{ StoreItemService }
	nopPurchases       struct{ PurchaseService }
	nopExpenses        struct{ ExpenseService }
	nopPurchaseDetails struct{ PurchaseDetailService }
	nopLocations       struct{ LocationService }
	nopPositions       struct{ PositionService }
	nopDashboard       struct{ DashboardService }
)

func TestRegisterRoutes(t *testing.T) {
	e := newEcho()
	deny := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
		}
	}
	RegisterRoutes(e, Handlers{
		Customer:       NewCustomerHandler(&stubCustomers{}, stubReports{}),
		Employee:       NewEmployeeHandler(&nopEmployees{}),
		Supplier:       NewSupplierHandler(&nopSuppliers{}),
		Product:        NewProductHandler(&stubProducts{}, stubReports{}),
		StoreItem:      NewStoreItemHandler(&nopStoreItems{}, stubReports{}),
		Sale:           NewSaleHandler(&stubSales{}, stubReports{}),
		Purchase:       NewPurchaseHandler(&nopPurchases{}, stubReports{}),
		Expense:        NewExpenseHandler(&nopExpenses{}),
		PurchaseDetail: NewPurchaseDetailHandler(&nopPurchaseDetails{}),
		Lookup:         NewLookupHandler(&nopLocations{}, &nopPositions{}),
		Dashboard:      NewDashboardHandler(&nopDashboard{}),
		Auth:           NewAuthHandler(stubAuth{}),
	}, deny)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/v1/api/customer/1", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/api/dashboard", "").Code)

	rec := do(e, http.MethodPost, "/auth/login", `{"username":"admin","password":"secret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed", decode(t, rec)["token"])

	rec = do(e, http.MethodPost, "/auth/login", `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/auth/login", `{"username":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubExpenses struct {
	ExpenseService
	created *model.Expense
}

func (s *stubExpenses) Create(ctx context.Context, e *model.Expense) (*model.Expense, error) {
	e.ID = 7
	s.created = e
	return e, nil
}

func (s *stubExpenses) Delete(ctx context.Context, id uint) error {
	if id != 7 {
		return apperror.NotFound("expense %d not found", id)
	}
	return nil
}

func TestExpenseRoutes(t *testing.T) {
	svc := &stubExpenses{}
	e := newEcho()
	NewExpenseHandler(svc).Register(e.Group("/v1/api/expense"))

	rec := do(e, http.MethodPost, "/v1/api/expense/save",
		`{"employee_id":3,"description":"Luz","amount":"120.50","expense_date":"2024-03-15"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "120.50", svc.created.Amount.StringFixed(2))
	assert.Equal(t, model.NewDate(2024, 3, 15), svc.created.ExpenseDate)

	rec = do(e, http.MethodPost, "/v1/api/expense/save", `{"employee_id":3,"description":"Luz","amount":"0"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "amount")

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodDelete, "/v1/api/expense/delete/7", "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodDelete, "/v1/api/expense/delete/8", "").Code)
}

type stubPurchaseDetails struct {
	PurchaseDetailService
}

func (stubPurchaseDetails) ListByPurchase(ctx context.Context, purchaseID uint) ([]model.PurchaseDetail, error) {
	if purchaseID != 1 {
		return nil, apperror.NotFound("purchase %d not found", purchaseID)
	}
	return []model.PurchaseDetail{{ID: 1, PurchaseID: 1, ProductID: 4, Quantity: 3}}, nil
}

func TestPurchaseDetailRoutes(t *testing.T) {
	e := newEcho()
	NewPurchaseDetailHandler(stubPurchaseDetails{}).Register(e.Group("/v1/api/purchase-details"))

	rec := do(e, http.MethodGet, "/v1/api/purchase-details/buy/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var lines []model.PurchaseDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, uint(4), lines[0].ProductID)

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/v1/api/purchase-details/buy/2", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/v1/api/purchase-details/x", "").Code)
}
