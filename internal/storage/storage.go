// Package storage keeps generated invoice documents on durable storage.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("artifact not found")

// Store writes artifacts by name and reads them back by the location Save returned
type Store interface {
	// Save writes data under name, replacing any previous content, and returns its location
	Save(ctx context.Context, name string, data []byte) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}
