package images

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	gcs "cloud.google.com/go/storage"
)

// GCSStore reads images from a Cloud Storage bucket under an optional prefix.
// Lookups are exact; object names are case-sensitive.
type GCSStore struct {
	client *gcs.Client
	bucket string
	prefix string
}

// NewGCSStore constructs a store backed by the provided Cloud Storage client.
func NewGCSStore(client *gcs.Client, bucket, prefix string) (*GCSStore, error) {
	if client == nil {
		return nil, errors.New("images gcs: client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("images gcs: bucket is required")
	}
	return &GCSStore{client: client, bucket: bucket, prefix: strings.Trim(strings.TrimSpace(prefix), "/")}, nil
}

func (s *GCSStore) Kind() string { return "gcs" }

func (s *GCSStore) object(name string) (*gcs.ObjectHandle, error) {
	name, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	key := name
	if s.prefix != "" {
		key = path.Join(s.prefix, name)
	}
	return s.client.Bucket(s.bucket).Object(key), nil
}

func (s *GCSStore) Open(ctx context.Context, name string) (*Object, error) {
	obj, err := s.object(name)
	if err != nil {
		return nil, err
	}
	r, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("images gcs: open %s: %w", name, err)
	}
	return &Object{
		ReadCloser:  r,
		Name:        name,
		Size:        r.Attrs.Size,
		ModTime:     r.Attrs.LastModified,
		ContentType: r.Attrs.ContentType,
		ETag:        `W/"g` + strconv.FormatInt(r.Attrs.Generation, 10) + `"`,
	}, nil
}

func (s *GCSStore) Exists(ctx context.Context, name string) (bool, error) {
	obj, err := s.object(name)
	if err != nil {
		return false, err
	}
	if _, err := obj.Attrs(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("images gcs: attrs %s: %w", name, err)
	}
	return true, nil
}
