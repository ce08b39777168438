package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/middleware"
)

var (
	// ErrNotFound is returned when the image does not exist in the store.
	ErrNotFound = errors.New("images: not found")
	// ErrInvalidName is returned for names that are empty or leave the image directory.
	ErrInvalidName = errors.New("images: invalid name")
)

// Object is an opened image. Close must be called.
type Object struct {
	io.ReadCloser
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
	ETag        string
}

// Store reads product images by filename.
type Store interface {
	Open(ctx context.Context, name string) (*Object, error)
	Exists(ctx context.Context, name string) (bool, error)
	Kind() string
}

// CleanName rejects empty names, separators and parent references. Image names are flat.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || strings.ContainsRune(name, 0) {
		return "", ErrInvalidName
	}
	return name, nil
}

// DirStore serves images from a local directory. Lookups fall back to a
// case-insensitive match when the exact name is missing.
type DirStore struct {
	root string

	mu    sync.Mutex
	etags map[string]etagEntry
}

type etagEntry struct {
	size    int64
	modTime time.Time
	etag    string
}

func NewDirStore(root string) *DirStore {
	return &DirStore{root: root, etags: map[string]etagEntry{}}
}

func (s *DirStore) Kind() string { return "dir" }

func (s *DirStore) Open(ctx context.Context, name string) (*Object, error) {
	path, err := s.locate(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("images: open %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("images: stat %s: %w", name, err)
	}
	etag, err := s.etag(path, f, info)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Object{
		ReadCloser:  f,
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		ETag:        etag,
	}, nil
}

func (s *DirStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.locate(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *DirStore) locate(name string) (string, error) {
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}
	exact := filepath.Join(s.root, name)
	if info, err := os.Stat(exact); err == nil && info.Mode().IsRegular() {
		return exact, nil
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("images: read dir: %w", err)
	}
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(e.Name(), name) {
			return filepath.Join(s.root, e.Name()), nil
		}
	}
	return "", ErrNotFound
}

// etag hashes the file once per (size, mtime) and rewinds f.
func (s *DirStore) etag(path string, f *os.File, info os.FileInfo) (string, error) {
	s.mu.Lock()
	cached, ok := s.etags[path]
	s.mu.Unlock()
	if ok && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		return cached.etag, nil
	}
	et, err := middleware.ReaderETag(f)
	if err != nil {
		return "", fmt.Errorf("images: hash %s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("images: rewind %s: %w", path, err)
	}
	s.mu.Lock()
	s.etags[path] = etagEntry{size: info.Size(), modTime: info.ModTime(), etag: et}
	s.mu.Unlock()
	return et, nil
}
