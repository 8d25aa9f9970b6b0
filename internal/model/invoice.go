package model

import (
	"encoding/json"
	"time"
)

// BillDateLayout is the wire format of bill dates
const BillDateLayout = "2006-01-02"

const (
	ArtifactPending = "pending"
	ArtifactReady   = "ready"
	ArtifactFailed  = "failed"
)

// Invoice represents a single-line invoice owned by one user
type Invoice struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	CustomerName      string    `json:"customer_name"`
	PurchaseOrderNo   string    `json:"purchase_order_no"`
	BillDate          time.Time `json:"-"`
	BillingAddress    string    `json:"billing_address"`
	ShippingAddress   string    `json:"shipping_address"`
	ItemName          string    `json:"item_name"`
	Quantity          int       `json:"quantity"`
	Price             float64   `json:"price"`
	Total             float64   `json:"total"` // Always quantity * price, computed server-side
	ItemDescription   string    `json:"item_description"`
	AdditionalDetails string    `json:"additional_details"`
	ArtifactStatus    string    `json:"artifact_status"` // "pending", "ready" or "failed"
	ArtifactPath      string    `json:"artifact_path,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// BillDateString formats the bill date the way it was submitted
func (i *Invoice) BillDateString() string {
	return i.BillDate.Format(BillDateLayout)
}

// MarshalJSON renders bill_date in BillDateLayout instead of RFC 3339
func (i Invoice) MarshalJSON() ([]byte, error) {
	type plain Invoice
	return json.Marshal(struct {
		plain
		BillDate string `json:"bill_date"`
	}{plain: plain(i), BillDate: i.BillDateString()})
}

// CreateInvoiceInput is the validated invoice form. There is no total field:
// whatever a client sends as total is never bound.
type CreateInvoiceInput struct {
	CustomerName      string
	PurchaseOrderNo   string
	BillDate          time.Time
	BillingAddress    string
	ShippingAddress   string
	ItemName          string
	Quantity          int
	Price             float64
	ItemDescription   string
	AdditionalDetails string
}

// InvoiceSummary is one row of the invoice history
type InvoiceSummary struct {
	ID       int64   `json:"ID"`
	Customer string  `json:"Customer"`
	PONo     string  `json:"PO No"`
	Date     string  `json:"Date"`
	Quantity int     `json:"Quantity"`
	Price    float64 `json:"Price"`
	Total    float64 `json:"Total"`
}

// Summary converts an invoice into its history row
func (i *Invoice) Summary() InvoiceSummary {
	return InvoiceSummary{
		ID:       i.ID,
		Customer: i.CustomerName,
		PONo:     i.PurchaseOrderNo,
		Date:     i.BillDateString(),
		Quantity: i.Quantity,
		Price:    i.Price,
		Total:    i.Total,
	}
}
