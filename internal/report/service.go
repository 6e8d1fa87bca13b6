package report

import (
	"context"
	"strconv"
	"time"

	"backoffice-service/internal/apperror"
	"backoffice-service/pkg/logger"
	"backoffice-service/prometheus"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DataSource loads the rows printed by each report
type DataSource interface {
	Customers(ctx context.Context) ([]CustomerRow, error)
	Products(ctx context.Context) ([]ProductRow, error)
	Sales(ctx context.Context) ([]SaleRow, error)
	Sale(ctx context.Context, id uint) (*SaleRow, []SaleLineRow, error)
	StoreItems(ctx context.Context) ([]StoreItemRow, error)
	Purchases(ctx context.Context) ([]PurchaseRow, error)
}

// File is a rendered report ready to be sent as an attachment
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Service builds report documents and hands them to a renderer
type Service struct {
	source   DataSource
	renderer Renderer
	now      func() time.Time
}

// NewService creates a report service
func NewService(source DataSource, renderer Renderer) *Service {
	return &Service{source: source, renderer: renderer, now: time.Now}
}

func (s *Service) CustomerReport(ctx context.Context) (*File, error) {
	rows, err := s.source.Customers(ctx)
	if err != nil {
		return nil, err
	}
	doc := s.document("Reporte de Clientes",
		Column{"Código", 1, AlignLeft},
		Column{"Nombre", 3, AlignLeft},
		Column{"Documento", 2, AlignLeft},
		Column{"Teléfono", 1.5, AlignLeft},
		Column{"Email", 3, AlignLeft},
		Column{"Registro", 1.5, AlignLeft},
	)
	for _, r := range rows {
		doc.Rows = append(doc.Rows, []string{
			r.ClientCode, r.FullName, r.DocumentType + " " + r.DocumentNumber, r.Phone, r.Email, r.RegisterDate.String(),
		})
	}
	doc.Totals = []Field{{"Total de clientes", strconv.Itoa(len(rows))}}
	return s.render(ctx, "customer", doc)
}

func (s *Service) ProductReport(ctx context.Context) (*File, error) {
	rows, err := s.source.Products(ctx)
	if err != nil {
		return nil, err
	}
	doc := s.document("Reporte de Productos",
		Column{"Código", 1, AlignLeft},
		Column{"Nombre", 3, AlignLeft},
		Column{"Categoría", 2, AlignLeft},
		Column{"Precio", 1.5, AlignRight},
		Column{"Stock", 1, AlignRight},
		Column{"Stock inicial", 1.5, AlignRight},
		Column{"Valor", 1.5, AlignRight},
	)
	value := decimal.Zero
	for _, r := range rows {
		lineValue := r.Price.Mul(decimal.NewFromInt(int64(r.Stock)))
		value = value.Add(lineValue)
		doc.Rows = append(doc.Rows, []string{
			r.ProductCode, r.Name, r.Category, r.Price.StringFixed(2),
			strconv.Itoa(r.Stock), strconv.Itoa(r.InitialStock), lineValue.StringFixed(2),
		})
	}
	doc.Totals = []Field{
		{"Total de productos", strconv.Itoa(len(rows))},
		{"Valor de inventario", value.StringFixed(2)},
	}
	return s.render(ctx, "product", doc)
}

func (s *Service) SaleReport(ctx context.Context) (*File, error) {
	rows, err := s.source.Sales(ctx)
	if err != nil {
		return nil, err
	}
	doc := s.document("Reporte de Ventas",
		Column{"Código", 1, AlignLeft},
		Column{"Fecha", 1.5, AlignLeft},
		Column{"Cliente", 3, AlignLeft},
		Column{"Empleado", 3, AlignLeft},
		Column{"Pago", 1.5, AlignLeft},
		Column{"Estado", 1.5, AlignLeft},
		Column{"Total", 1.5, AlignRight},
	)
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Total)
		doc.Rows = append(doc.Rows, []string{
			r.SaleCode, r.SaleDate.String(), r.CustomerName, r.EmployeeName, r.PaymentMethod, r.Status, r.Total.StringFixed(2),
		})
	}
	doc.Totals = []Field{
		{"Total de ventas", strconv.Itoa(len(rows))},
		{"Monto total", total.StringFixed(2)},
	}
	return s.render(ctx, "sale", doc)
}

// SaleReceipt renders one sale with its lines
func (s *Service) SaleReceipt(ctx context.Context, id uint) (*File, error) {
	sale, lines, err := s.source.Sale(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := s.document("Venta "+sale.SaleCode,
		Column{"Código", 1, AlignLeft},
		Column{"Producto", 4, AlignLeft},
		Column{"Cantidad", 1, AlignRight},
		Column{"Precio", 1.5, AlignRight},
		Column{"Subtotal", 1.5, AlignRight},
	)
	doc.Fields = []Field{
		{"Fecha", sale.SaleDate.String()},
		{"Cliente", sale.CustomerName},
		{"Empleado", sale.EmployeeName},
		{"Método de pago", sale.PaymentMethod},
		{"Estado", sale.Status},
	}
	for _, l := range lines {
		doc.Rows = append(doc.Rows, []string{
			l.ProductCode, l.ProductName, strconv.Itoa(l.Quantity), l.UnitPrice.StringFixed(2), l.Subtotal.StringFixed(2),
		})
	}
	doc.Totals = []Field{{"Total", sale.Total.StringFixed(2)}}
	return s.render(ctx, "sale_receipt", doc)
}

func (s *Service) StoreItemReport(ctx context.Context) (*File, error) {
	rows, err := s.source.StoreItems(ctx)
	if err != nil {
		return nil, err
	}
	doc := s.document("Reporte de Almacén",
		Column{"Código", 1, AlignLeft},
		Column{"Producto", 3, AlignLeft},
		Column{"Categoría", 2, AlignLeft},
		Column{"Stock", 1, AlignRight},
		Column{"Mínimo", 1, AlignRight},
		Column{"Unidad", 1, AlignLeft},
		Column{"Precio", 1.5, AlignRight},
		Column{"Vence", 1.5, AlignLeft},
		Column{"Estado", 2, AlignLeft},
	)
	for _, r := range rows {
		doc.Rows = append(doc.Rows, []string{
			r.ItemCode, r.ProductName, r.Category, strconv.Itoa(r.CurrentStock), strconv.Itoa(r.MinimumStock),
			r.Unit, r.UnitPrice.StringFixed(2), r.ExpiryDate.String(), r.Status,
		})
	}
	doc.Totals = []Field{{"Total de artículos", strconv.Itoa(len(rows))}}
	return s.render(ctx, "store_item", doc)
}

func (s *Service) PurchaseReport(ctx context.Context) (*File, error) {
	rows, err := s.source.Purchases(ctx)
	if err != nil {
		return nil, err
	}
	doc := s.document("Reporte de Compras",
		Column{"Código", 1, AlignLeft},
		Column{"Fecha", 1.5, AlignLeft},
		Column{"Proveedor", 4, AlignLeft},
		Column{"Tipo de pago", 2, AlignLeft},
		Column{"Total", 1.5, AlignRight},
	)
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TotalAmount)
		doc.Rows = append(doc.Rows, []string{
			r.PurchaseCode, r.PurchaseDate.String(), r.SupplierName, r.PaymentType, r.TotalAmount.StringFixed(2),
		})
	}
	doc.Totals = []Field{
		{"Total de compras", strconv.Itoa(len(rows))},
		{"Monto total", total.StringFixed(2)},
	}
	return s.render(ctx, "purchase", doc)
}

func (s *Service) document(title string, columns ...Column) Document {
	return Document{Title: title, GeneratedAt: s.now(), Columns: columns}
}

// render never returns partial content: any renderer error becomes an External error
func (s *Service) render(ctx context.Context, report string, doc Document) (*File, error) {
	log := logger.FromContext(ctx).With(zap.String("report", report))

	content, err := s.renderer.Render(ctx, doc)
	if err != nil {
		prometheus.RecordReportFailure(report)
		log.Error("Report rendering failed", zap.Error(err))
		return nil, apperror.External(err, "could not generate %s report", report)
	}

	prometheus.RecordOperation("report", report)
	log.Info("Report generated", zap.Int("rows", len(doc.Rows)), zap.Int("bytes", len(content)))
	return &File{
		Name:        FileName(doc.Title, doc.GeneratedAt),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

// FileName builds the attachment name for a report title generated at t
func FileName(title string, t time.Time) string {
	return slug.Make(title+" "+t.Format("2006-01-02")) + ".pdf"
}
