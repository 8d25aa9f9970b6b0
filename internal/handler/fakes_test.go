package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"invoice_generator/internal/model"
	"invoice_generator/internal/service"
)

var testUser = &model.User{ID: 7, FullName: "Alice Smith", Username: "alice", Email: "alice@example.com", PasswordHash: "$2a$10$hash"}

const goodToken = "good-token"

type fakeAuthService struct {
	signupErr error
	loginErr  error
	signedUp  *model.SignupInput
}

func (f *fakeAuthService) Signup(_ context.Context, in model.SignupInput) (*model.User, error) {
	f.signedUp = &in
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &model.User{ID: 1, Username: in.Username}, nil
}

func (f *fakeAuthService) Login(_ context.Context, identifier, password string) (*model.User, string, error) {
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	if identifier == "" || password == "" {
		return nil, "", service.ErrMissingFields
	}
	return testUser, goodToken, nil
}

func (f *fakeAuthService) VerifyToken(_ context.Context, token string) (*model.User, error) {
	if token != goodToken {
		return nil, service.ErrUnauthorized
	}
	return testUser, nil
}

type fakeInvoiceService struct {
	calls     int
	lastInput *model.CreateInvoiceInput
	createErr error
	invoices  map[int64]*model.Invoice
	pdf       []byte
	renderErr error
}

func newFakeInvoiceService() *fakeInvoiceService {
	return &fakeInvoiceService{invoices: map[int64]*model.Invoice{}}
}

func (f *fakeInvoiceService) CreateInvoice(_ context.Context, user *model.User, in model.CreateInvoiceInput) (*model.Invoice, error) {
	f.calls++
	f.lastInput = &in
	inv := &model.Invoice{
		ID:             int64(len(f.invoices) + 1),
		UserID:         user.ID,
		CustomerName:   in.CustomerName,
		BillDate:       in.BillDate,
		Quantity:       in.Quantity,
		Price:          in.Price,
		Total:          service.LineTotal(in.Quantity, in.Price),
		ArtifactStatus: model.ArtifactReady,
	}
	inv.ArtifactPath = fmt.Sprintf("invoices/invoice_%d.pdf", inv.ID)
	if f.createErr != nil {
		if errors.Is(f.createErr, service.ErrArtifactFailed) {
			inv.ArtifactStatus = model.ArtifactFailed
			inv.ArtifactPath = ""
			f.invoices[inv.ID] = inv
			return inv, f.createErr
		}
		return nil, f.createErr
	}
	f.invoices[inv.ID] = inv
	return inv, nil
}

func (f *fakeInvoiceService) ListHistory(_ context.Context, user *model.User) ([]model.InvoiceSummary, error) {
	f.calls++
	out := []model.InvoiceSummary{}
	for id := int64(len(f.invoices)); id >= 1; id-- {
		if inv := f.invoices[id]; inv != nil && inv.UserID == user.ID {
			out = append(out, inv.Summary())
		}
	}
	return out, nil
}

func (f *fakeInvoiceService) GetInvoice(_ context.Context, user *model.User, id int64) (*model.Invoice, error) {
	f.calls++
	inv, ok := f.invoices[id]
	if !ok || inv.UserID != user.ID {
		return nil, service.ErrInvoiceNotFound
	}
	return inv, nil
}

func (f *fakeInvoiceService) RenderArtifact(ctx context.Context, user *model.User, id int64) (*model.Invoice, error) {
	inv, err := f.GetInvoice(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if f.renderErr != nil {
		inv.ArtifactStatus = model.ArtifactFailed
		return inv, f.renderErr
	}
	inv.ArtifactStatus = model.ArtifactReady
	inv.ArtifactPath = "invoices/invoice_1.pdf"
	return inv, nil
}

func (f *fakeInvoiceService) OpenArtifact(ctx context.Context, user *model.User, id int64) (io.ReadCloser, string, error) {
	inv, err := f.GetInvoice(ctx, user, id)
	if err != nil {
		return nil, "", err
	}
	if inv.ArtifactStatus != model.ArtifactReady {
		return nil, "", service.ErrArtifactNotReady
	}
	return io.NopCloser(bytes.NewReader(f.pdf)), "invoice_1.pdf", nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
