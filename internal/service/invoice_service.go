package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"invoice_generator/internal/metrics"
	"invoice_generator/internal/model"
	"invoice_generator/internal/pdf"
	"invoice_generator/internal/repository"
	"invoice_generator/internal/storage"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrMissingInvoiceFields = errors.New("All required invoice fields must be filled")
	ErrInvalidQuantity      = errors.New("Quantity must be at least 1")
	ErrInvalidPrice         = errors.New("Price must be a non-negative number")
	ErrQuantityTooLarge     = fmt.Errorf("Quantity must not exceed %d", MaxQuantity)
	ErrPriceTooLarge        = fmt.Errorf("Price must not exceed %.2f", MaxPrice)
	ErrTotalTooLarge        = fmt.Errorf("Total must not exceed %.2f", MaxTotal)
	ErrArtifactFailed       = errors.New("failed to generate invoice PDF")
	ErrArtifactNotReady     = errors.New("invoice PDF is not available")
)

// Upper bounds of the invoices table columns: quantity INTEGER, price NUMERIC(12,2)
// and total NUMERIC(14,2).
const (
	MaxQuantity = math.MaxInt32
	MaxPrice    = 9999999999.99
	MaxTotal    = 999999999999.99
)

// IsInvoiceValidationError reports whether err rejects the submitted invoice form
func IsInvoiceValidationError(err error) bool {
	for _, target := range []error{
		ErrMissingInvoiceFields, ErrInvalidQuantity, ErrInvalidPrice,
		ErrQuantityTooLarge, ErrPriceTooLarge, ErrTotalTooLarge,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ArtifactGenerator renders an invoice document and reads it back
type ArtifactGenerator interface {
	Generate(ctx context.Context, inv *model.Invoice) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// InvoiceService defines operations on a user's invoices. Every method takes the
// authenticated user and fails with ErrUnauthorized when it is nil.
type InvoiceService interface {
	// CreateInvoice persists the invoice and renders its PDF. When rendering fails the
	// persisted invoice is still returned, together with an error wrapping ErrArtifactFailed.
	CreateInvoice(ctx context.Context, user *model.User, in model.CreateInvoiceInput) (*model.Invoice, error)
	ListHistory(ctx context.Context, user *model.User) ([]model.InvoiceSummary, error)
	GetInvoice(ctx context.Context, user *model.User, id int64) (*model.Invoice, error)
	RenderArtifact(ctx context.Context, user *model.User, id int64) (*model.Invoice, error)
	OpenArtifact(ctx context.Context, user *model.User, id int64) (io.ReadCloser, string, error)
}

type invoiceService struct {
	repo      repository.InvoiceRepository
	generator ArtifactGenerator
	log       logrus.FieldLogger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(repo repository.InvoiceRepository, generator ArtifactGenerator, log logrus.FieldLogger) InvoiceService {
	return &invoiceService{repo: repo, generator: generator, log: log}
}

// RoundCents rounds half away from zero, the way NUMERIC(_,2) stores a value
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineTotal is quantity * price rounded to cents
func LineTotal(quantity int, price float64) float64 {
	return RoundCents(float64(quantity) * price)
}

func validateInvoiceInput(in model.CreateInvoiceInput) (model.CreateInvoiceInput, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.PurchaseOrderNo = strings.TrimSpace(in.PurchaseOrderNo)
	in.BillingAddress = strings.TrimSpace(in.BillingAddress)
	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	in.ItemName = strings.TrimSpace(in.ItemName)

	if in.CustomerName == "" || in.PurchaseOrderNo == "" || in.BillDate.IsZero() ||
		in.BillingAddress == "" || in.ShippingAddress == "" || in.ItemName == "" {
		return in, ErrMissingInvoiceFields
	}
	if in.Quantity < 1 {
		return in, ErrInvalidQuantity
	}
	if in.Quantity > MaxQuantity {
		return in, ErrQuantityTooLarge
	}
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) || in.Price < 0 {
		return in, ErrInvalidPrice
	}
	// The stored price is in cents; the total must be computed from that same value.
	in.Price = RoundCents(in.Price)
	if in.Price > MaxPrice {
		return in, ErrPriceTooLarge
	}
	if LineTotal(in.Quantity, in.Price) > MaxTotal {
		return in, ErrTotalTooLarge
	}
	return in, nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, user *model.User, in model.CreateInvoiceInput) (*model.Invoice, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	in, err := validateInvoiceInput(in)
	if err != nil {
		return nil, err
	}

	inv := &model.Invoice{
		UserID:            user.ID,
		CustomerName:      in.CustomerName,
		PurchaseOrderNo:   in.PurchaseOrderNo,
		BillDate:          in.BillDate,
		BillingAddress:    in.BillingAddress,
		ShippingAddress:   in.ShippingAddress,
		ItemName:          in.ItemName,
		Quantity:          in.Quantity,
		Price:             in.Price,
		Total:             LineTotal(in.Quantity, in.Price),
		ItemDescription:   in.ItemDescription,
		AdditionalDetails: in.AdditionalDetails,
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create invoice in repo: %w", err)
	}
	metrics.ObserveInvoiceCreated()
	s.log.WithFields(logrus.Fields{"invoice_id": inv.ID, "user_id": user.ID}).Info("Invoice created")

	if err := s.render(ctx, inv); err != nil {
		return inv, err
	}
	return inv, nil
}

func (s *invoiceService) ListHistory(ctx context.Context, user *model.User) ([]model.InvoiceSummary, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	invoices, err := s.repo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user invoices from repo: %w", err)
	}

	history := make([]model.InvoiceSummary, 0, len(invoices))
	for i := range invoices {
		history = append(history, invoices[i].Summary())
	}
	return history, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, user *model.User, id int64) (*model.Invoice, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	inv, err := s.repo.FindByID(ctx, user.ID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice by ID: %w", err)
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

// RenderArtifact renders the PDF of an owned invoice again, whatever its current status
func (s *invoiceService) RenderArtifact(ctx context.Context, user *model.User, id int64) (*model.Invoice, error) {
	inv, err := s.GetInvoice(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := s.render(ctx, inv); err != nil {
		return inv, err
	}
	return inv, nil
}

// OpenArtifact returns the stored PDF of an owned invoice and its download name
func (s *invoiceService) OpenArtifact(ctx context.Context, user *model.User, id int64) (io.ReadCloser, string, error) {
	inv, err := s.GetInvoice(ctx, user, id)
	if err != nil {
		return nil, "", err
	}
	if inv.ArtifactStatus != model.ArtifactReady || inv.ArtifactPath == "" {
		return nil, "", ErrArtifactNotReady
	}

	rc, err := s.generator.Open(ctx, inv.ArtifactPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.WithField("invoice_id", inv.ID).Warn("Invoice marked ready but PDF is missing")
			return nil, "", ErrArtifactNotReady
		}
		return nil, "", fmt.Errorf("failed to open invoice PDF: %w", err)
	}
	return rc, pdf.FileName(inv.ID), nil
}

// render generates the document and records the outcome on the invoice row
func (s *invoiceService) render(ctx context.Context, inv *model.Invoice) error {
	start := time.Now()
	location, err := s.generator.Generate(ctx, inv)
	if err != nil {
		metrics.ObserveArtifactRender("failure", time.Since(start))
		s.log.WithError(err).WithField("invoice_id", inv.ID).Error("Failed to render invoice PDF")
		s.markFailed(ctx, inv)
		return fmt.Errorf("%w: %v", ErrArtifactFailed, err)
	}
	metrics.ObserveArtifactRender("success", time.Since(start))

	if err := s.repo.UpdateArtifact(ctx, inv.ID, model.ArtifactReady, location); err != nil {
		s.log.WithError(err).WithField("invoice_id", inv.ID).Error("Failed to record invoice artifact")
		s.markFailed(ctx, inv)
		return fmt.Errorf("%w: failed to record invoice artifact: %v", ErrArtifactFailed, err)
	}
	inv.ArtifactStatus = model.ArtifactReady
	inv.ArtifactPath = location
	return nil
}

// markFailed leaves the row re-renderable. The row is already committed, so the
// failure is recorded even if the request was canceled.
func (s *invoiceService) markFailed(ctx context.Context, inv *model.Invoice) {
	if err := s.repo.UpdateArtifact(context.WithoutCancel(ctx), inv.ID, model.ArtifactFailed, ""); err != nil {
		s.log.WithError(err).WithField("invoice_id", inv.ID).Error("Failed to mark invoice artifact as failed")
	}
	inv.ArtifactStatus = model.ArtifactFailed
	inv.ArtifactPath = ""
}
