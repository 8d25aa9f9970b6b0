package pdf

import (
	"bytes"
	"testing"
	"time"

	"invoice_generator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() *model.Invoice {
	return &model.Invoice{
		ID:                42,
		UserID:            1,
		CustomerName:      "Acme Corp",
		PurchaseOrderNo:   "PO-7",
		BillDate:          time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		BillingAddress:    "1 Main St",
		ShippingAddress:   "2 Side St",
		ItemName:          "Widget",
		Quantity:          3,
		Price:             25.5,
		Total:             76.5,
		ItemDescription:   "Blue widgets",
		AdditionalDetails: "Net 30",
		CreatedAt:         time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestRenderer_Render(t *testing.T) {
	r := &Renderer{}
	data, err := r.Render(sampleInvoice())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	for _, want := range []string{
		"INVOICE",
		"Customer: Acme Corp",
		"PO No: PO-7",
		"Bill Date: 2024-03-05",
		"Qty: 3",
		"Price: 25.50",
		"Total: 76.50",
		"Additional Details: Net 30",
	} {
		assert.True(t, bytes.Contains(data, []byte(want)), "missing %q", want)
	}
}

func TestRenderer_EmptyOptionalFields(t *testing.T) {
	inv := sampleInvoice()
	inv.ItemDescription = ""
	inv.AdditionalDetails = ""

	data, err := NewRenderer().Render(inv)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRenderer_NilInvoice(t *testing.T) {
	_, err := NewRenderer().Render(nil)
	assert.Error(t, err)
}
