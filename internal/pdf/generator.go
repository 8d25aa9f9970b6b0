package pdf

import (
	"context"
	"fmt"
	"io"

	"invoice_generator/internal/model"
	"invoice_generator/internal/storage"
)

// Generator renders invoices and stores the result as invoice_<id>.pdf
type Generator struct {
	renderer *Renderer
	store    storage.Store
}

// NewGenerator creates a Generator writing to store
func NewGenerator(renderer *Renderer, store storage.Store) *Generator {
	return &Generator{renderer: renderer, store: store}
}

// FileName is the artifact name for an invoice id
func FileName(id int64) string {
	return fmt.Sprintf("invoice_%d.pdf", id)
}

// Generate renders inv and returns the storage location of the document.
// Calling it again for the same invoice replaces the stored document.
func (g *Generator) Generate(ctx context.Context, inv *model.Invoice) (string, error) {
	if inv.ID <= 0 {
		return "", fmt.Errorf("invoice must be persisted before rendering")
	}
	data, err := g.renderer.Render(inv)
	if err != nil {
		return "", err
	}
	location, err := g.store.Save(ctx, FileName(inv.ID), data)
	if err != nil {
		return "", fmt.Errorf("failed to store invoice %d: %w", inv.ID, err)
	}
	return location, nil
}

// Open reads back a document previously returned by Generate
func (g *Generator) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	return g.store.Open(ctx, location)
}
