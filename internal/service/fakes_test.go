package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"invoice_generator/internal/model"
	"invoice_generator/internal/repository"
	"invoice_generator/internal/storage"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  []*model.User
	// raceOnCreate simulates a concurrent signup winning between lookup and insert
	raceOnCreate error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.raceOnCreate != nil {
		return r.raceOnCreate
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, nil
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	nextID   int64
	invoices map[int64]*model.Invoice
	reads    int
	writes   int
	// readyErr fails only the update that marks an artifact ready
	readyErr error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: map[int64]*model.Invoice{}}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.nextID++
	inv.ID = r.nextID
	inv.CreatedAt = time.Now()
	inv.ArtifactStatus = model.ArtifactPending
	inv.ArtifactPath = ""
	stored := *inv
	r.invoices[inv.ID] = &stored
	return nil
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, userID, id int64) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	inv, ok := r.invoices[id]
	if !ok || inv.UserID != userID {
		return nil, nil
	}
	found := *inv
	return &found, nil
}

func (r *fakeInvoiceRepo) FindByUser(_ context.Context, userID int64) ([]model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	out := []model.Invoice{}
	for _, inv := range r.invoices {
		if inv.UserID == userID {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeInvoiceRepo) UpdateArtifact(_ context.Context, id int64, status, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if status == model.ArtifactReady && r.readyErr != nil {
		return r.readyErr
	}
	inv, ok := r.invoices[id]
	if !ok {
		return repository.ErrInvoiceNotFound
	}
	inv.ArtifactStatus = status
	inv.ArtifactPath = path
	return nil
}

func (r *fakeInvoiceRepo) stored(id int64) model.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.invoices[id]
}

type fakeGenerator struct {
	mu    sync.Mutex
	err   error
	calls int
	docs  map[string][]byte
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{docs: map[string][]byte{}}
}

func (g *fakeGenerator) Generate(_ context.Context, inv *model.Invoice) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	location := "mem://invoice_" + strconv.FormatInt(inv.ID, 10) + ".pdf"
	g.docs[location] = []byte("%PDF-fake " + inv.CustomerName)
	return location, nil
}

func (g *fakeGenerator) Open(_ context.Context, location string) (io.ReadCloser, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	data, ok := g.docs[location]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (g *fakeGenerator) fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *fakeGenerator) drop(location string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.docs, location)
}

var errDiskFull = errors.New("disk full")
