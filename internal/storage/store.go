// Package storage holds uploaded file bytes behind the MediaStore boundary.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrTooLarge = errors.New("file exceeds the upload size limit")

// StoredObject is what a store hands back for a saved file.
type StoredObject struct {
	URL      string
	PublicID string
	Size     int64
}

// MediaStore saves file bytes and returns a permanent URL plus an opaque id
// that Delete later accepts.
type MediaStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (StoredObject, error)
	Delete(ctx context.Context, publicID string) error
}
