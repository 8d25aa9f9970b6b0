package pdf

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"invoice_generator/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Save(context.Context, string, []byte) (string, error) {
	return "", errors.New("disk full")
}

func (failingStore) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, storage.ErrNotFound
}

func TestGenerator_Generate(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(NewRenderer(), storage.NewLocalStore(dir))
	ctx := context.Background()

	location, err := gen.Generate(ctx, sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, "invoice_42.pdf", filepath.Base(location))

	rc, err := gen.Open(ctx, location)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(data[:5]))
}

func TestGenerator_RequiresPersistedInvoice(t *testing.T) {
	gen := NewGenerator(NewRenderer(), storage.NewLocalStore(t.TempDir()))
	inv := sampleInvoice()
	inv.ID = 0

	_, err := gen.Generate(context.Background(), inv)
	assert.Error(t, err)
}

func TestGenerator_StoreFailure(t *testing.T) {
	gen := NewGenerator(NewRenderer(), failingStore{})

	_, err := gen.Generate(context.Background(), sampleInvoice())
	assert.ErrorContains(t, err, "disk full")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "invoice_12.pdf", FileName(12))
}
