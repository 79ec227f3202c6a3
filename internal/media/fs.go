package media

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/erazemk/najdeno/internal/apperr"
)

// FSStore keeps blobs in a local directory and serves them over HTTP.
type FSStore struct {
	Root    string
	BaseURL string
}

// NewFSStore creates the namespace directory under root.
func NewFSStore(root, baseURL string) (*FSStore, error) {
	if err := os.MkdirAll(filepath.Join(root, Namespace), 0o755); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}
	return &FSStore{Root: root, BaseURL: baseURL}, nil
}

// Upload writes data to a new file and returns its locator.
func (s *FSStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &apperr.StorageError{Op: "upload", Err: err}
	}

	key := NewKey(filename)
	path := filepath.Join(s.Root, filepath.FromSlash(key))

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", &apperr.StorageError{Op: "upload", Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", &apperr.StorageError{Op: "upload", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &apperr.StorageError{Op: "upload", Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", &apperr.StorageError{Op: "upload", Err: err}
	}

	return Locator(s.BaseURL, key), nil
}

// Remove deletes the file a locator points to.
func (s *FSStore) Remove(ctx context.Context, locator string) error {
	key, err := ResolveKey(s.BaseURL, locator)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &apperr.StorageError{Op: "remove", Locator: locator, Err: err}
	}
	if err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(key))); err != nil {
		return &apperr.StorageError{Op: "remove", Locator: locator, Err: err}
	}
	return nil
}

// ServeBlob handles GET requests for a blob by its {name} path value.
func (s *FSStore) ServeBlob(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !ValidName(name) {
		http.NotFound(w, r)
		return
	}

	data, err := os.ReadFile(filepath.Join(s.Root, Namespace, name))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(data))
}

// Resolve returns the key behind a locator issued by this store.
func (s *FSStore) Resolve(locator string) (string, error) {
	return ResolveKey(s.BaseURL, locator)
}
