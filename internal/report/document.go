package report

import (
	"context"
	"time"
)

// Align is the horizontal alignment of a column
type Align string

const (
	AlignLeft  Align = "L"
	AlignRight Align = "R"
)

// Column describes one table column; Width is relative to the other columns
type Column struct {
	Header string
	Width  float64
	Align  Align
}

// Field is a labelled value printed above the table
type Field struct {
	Label string
	Value string
}

// Document is everything a renderer needs to produce one report
type Document struct {
	Title       string
	GeneratedAt time.Time
	Fields      []Field
	Columns     []Column
	Rows        [][]string
	Totals      []Field
}

// Renderer turns a document into file bytes. Errors are passed through untouched.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}
