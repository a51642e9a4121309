// Package blob stores uploaded media on the local file system and issues
// time-limited signed URLs for it.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Store persists media objects under per-user prefixes.
type Store interface {
	// Put writes the object and returns its key ("<userID>/<unique-name>").
	Put(ctx context.Context, userID, filename string, r io.Reader, limit int64) (string, error)
	// Open opens an object for reading.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes an object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
}

// ErrTooLarge is returned by Put when the upload exceeds the size limit.
var ErrTooLarge = fmt.Errorf("upload exceeds size limit")

// FS implements Store backed by the local file system.
type FS struct {
	root string
}

// NewFS creates an FS store rooted at dir, creating it if needed.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("blob: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("blob: mkdir root: %w", err)
	}
	return &FS{root: abs}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// safeName flattens a client-supplied filename into something safe to store:
// base name only, unsafe characters collapsed to '-'.
func safeName(filename string) string {
	base := path.Base(filepath.ToSlash(filename))
	clean := unsafeChars.ReplaceAllString(base, "-")
	clean = strings.Trim(clean, "-.")
	if clean == "" {
		clean = "upload"
	}
	return clean
}

// safePath resolves a key against the root and rejects any result that
// escapes it (directory traversal).
func (f *FS) safePath(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("blob: invalid key: %s", key)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("blob: key escapes root: %s", key)
	}
	return abs, nil
}

// Put atomically writes the object: tmp file, fsync, rename.
func (f *FS) Put(ctx context.Context, userID, filename string, r io.Reader, limit int64) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("blob: userID is required")
	}
	key := userID + "/" + uuid.New().String() + "-" + safeName(filename)
	abs, err := f.safePath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("blob: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".upload-tmp-*")
	if err != nil {
		return "", fmt.Errorf("blob: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	n, err := io.Copy(tmp, src)
	if err != nil {
		return "", fmt.Errorf("blob: write temp: %w", err)
	}
	if limit > 0 && n > limit {
		return "", ErrTooLarge
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("blob: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("blob: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return "", fmt.Errorf("blob: rename: %w", err)
	}
	success = true
	return key, nil
}

func (f *FS) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	abs, err := f.safePath(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("blob: open %s: %w", key, err)
	}
	return file, nil
}

func (f *FS) Delete(ctx context.Context, key string) error {
	abs, err := f.safePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blob: delete %s: %w", key, err)
	}
	return nil
}
