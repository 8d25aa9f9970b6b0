// Package pdf lays out invoice documents and hands them to artifact storage.
package pdf

import (
	"bytes"
	"fmt"

	"invoice_generator/internal/model"

	"github.com/go-pdf/fpdf"
)

const (
	lineHeight  = 8.0
	titleHeight = 10.0
	sectionGap  = 5.0
)

// Renderer turns an invoice into a single-page A4 document
type Renderer struct {
	compress bool
}

// NewRenderer creates a Renderer producing compressed output
func NewRenderer() *Renderer {
	return &Renderer{compress: true}
}

// Render lays out the invoice and returns the encoded PDF
func (r *Renderer) Render(inv *model.Invoice) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("nil invoice")
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(r.compress)
	doc.SetTitle(fmt.Sprintf("Invoice %d", inv.ID), true)
	doc.SetCreationDate(inv.CreatedAt)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	line := func(format string, args ...any) {
		doc.CellFormat(0, lineHeight, tr(fmt.Sprintf(format, args...)), "", 1, "", false, 0, "")
	}

	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(0, titleHeight, "INVOICE", "", 1, "", false, 0, "")

	doc.SetFont("Arial", "", 12)
	line("Customer: %s", inv.CustomerName)
	line("PO No: %s", inv.PurchaseOrderNo)
	line("Bill Date: %s", inv.BillDateString())

	doc.Ln(sectionGap)
	line("Billing Address: %s", inv.BillingAddress)
	line("Shipping Address: %s", inv.ShippingAddress)

	doc.Ln(sectionGap)
	line("Item: %s", inv.ItemName)
	line("Qty: %d", inv.Quantity)
	line("Price: %.2f", inv.Price)
	line("Total: %.2f", inv.Total)

	doc.Ln(sectionGap)
	doc.MultiCell(0, lineHeight, tr("Description: "+inv.ItemDescription), "", "", false)
	doc.MultiCell(0, lineHeight, tr("Additional Details: "+inv.AdditionalDetails), "", "", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice %d: %w", inv.ID, err)
	}
	return buf.Bytes(), nil
}
