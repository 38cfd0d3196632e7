package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps files in a directory that the HTTP server exposes under
// baseURL.
type LocalStore struct {
	dir      string
	baseURL  string
	maxBytes int64
}

func NewLocalStore(dir, baseURL string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}, nil
}

// Save streams r to a new uuid-named file. Files larger than the limit are
// removed and reported as ErrTooLarge.
func (s *LocalStore) Save(ctx context.Context, name, contentType string, r io.Reader) (StoredObject, error) {
	publicID := uuid.NewString() + strings.ToLower(filepath.Ext(name))
	path := filepath.Join(s.dir, publicID)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return StoredObject{}, fmt.Errorf("create file: %w", err)
	}

	limit := s.maxBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	n, err := io.Copy(f, io.LimitReader(&ctxReader{ctx: ctx, r: r}, limit+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > limit {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return StoredObject{}, err
	}

	return StoredObject{URL: s.baseURL + "/" + publicID, PublicID: publicID, Size: n}, nil
}

func (s *LocalStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" || publicID != filepath.Base(publicID) {
		return fmt.Errorf("invalid public id %q", publicID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, publicID))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ctxReader stops a copy once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
