package repository

import (
	"context"
	"errors"
	"fmt"

	"invoice_generator/internal/model"

	"github.com/jackc/pgx/v5"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

// InvoiceRepository defines operations for invoice data. Every read is scoped to an owner.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, userID, id int64) (*model.Invoice, error)
	FindByUser(ctx context.Context, userID int64) ([]model.Invoice, error)
	UpdateArtifact(ctx context.Context, id int64, status, path string) error
}

type invoiceRepository struct {
	db DBTX
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(db DBTX) InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `id, user_id, customer_name, purchase_order_no, bill_date, billing_address, shipping_address,
            item_name, quantity, price, total, item_description, additional_details, artifact_status, artifact_path, created_at`

// Create inserts a new invoice in the pending artifact state
func (r *invoiceRepository) Create(ctx context.Context, inv *model.Invoice) error {
	sql := `INSERT INTO invoices (user_id, customer_name, purchase_order_no, bill_date, billing_address, shipping_address,
            item_name, quantity, price, total, item_description, additional_details, artifact_status)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, sql,
		inv.UserID, inv.CustomerName, inv.PurchaseOrderNo, inv.BillDate, inv.BillingAddress, inv.ShippingAddress,
		inv.ItemName, inv.Quantity, inv.Price, inv.Total, inv.ItemDescription, inv.AdditionalDetails, model.ArtifactPending,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	inv.ArtifactStatus = model.ArtifactPending
	inv.ArtifactPath = ""
	return nil
}

// FindByID retrieves an invoice owned by userID. Returns nil, nil when absent or owned by someone else.
func (r *invoiceRepository) FindByID(ctx context.Context, userID, id int64) (*model.Invoice, error) {
	sql := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND user_id = $2`
	inv := &model.Invoice{}
	err := scanInvoice(r.db.QueryRow(ctx, sql, id, userID), inv)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find invoice by ID: %w", err)
	}
	return inv, nil
}

// FindByUser retrieves every invoice owned by userID, newest first
func (r *invoiceRepository) FindByUser(ctx context.Context, userID int64) ([]model.Invoice, error) {
	sql := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 ORDER BY id DESC`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices by user: %w", err)
	}
	defer rows.Close()

	invoices := []model.Invoice{}
	for rows.Next() {
		var inv model.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return invoices, nil
}

// UpdateArtifact records the outcome of rendering an invoice
func (r *invoiceRepository) UpdateArtifact(ctx context.Context, id int64, status, path string) error {
	sql := `UPDATE invoices SET artifact_status = $1, artifact_path = $2 WHERE id = $3`
	cmdTag, err := r.db.Exec(ctx, sql, status, path, id)
	if err != nil {
		return fmt.Errorf("failed to update invoice artifact: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func scanInvoice(row pgx.Row, inv *model.Invoice) error {
	return row.Scan(
		&inv.ID, &inv.UserID, &inv.CustomerName, &inv.PurchaseOrderNo, &inv.BillDate, &inv.BillingAddress,
		&inv.ShippingAddress, &inv.ItemName, &inv.Quantity, &inv.Price, &inv.Total, &inv.ItemDescription,
		&inv.AdditionalDetails, &inv.ArtifactStatus, &inv.ArtifactPath, &inv.CreatedAt,
	)
}
