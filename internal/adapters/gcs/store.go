// Package gcs adapts Google Cloud Storage to the object store port. Raw
// headband recordings land in a bucket organized by site prefix, and this
// package is the only place that talks to it.
package gcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/example/museqc/internal/ports/secondary"
)

// Store implements secondary.ObjectStore against Google Cloud Storage.
type Store struct {
	client *storage.Client
}

var _ secondary.ObjectStore = (*Store)(nil)

// NewStore creates a store using application default credentials.
func NewStore(ctx context.Context) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Store{client: client}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// List enumerates every object under root, returning paths relative to the
// root prefix.
func (s *Store) List(ctx context.Context, root string) ([]secondary.StoredObject, error) {
	bucket, prefix, err := parseRoot(root)
	if err != nil {
		return nil, err
	}

	var query *storage.Query
	if prefix != "" {
		query = &storage.Query{Prefix: prefix + "/"}
	}

	var objects []secondary.StoredObject
	it := s.client.Bucket(bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", root, err)
		}
		// Placeholder objects for "directories" carry a trailing slash.
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		objects = append(objects, secondary.StoredObject{
			Path:     relativePath(attrs.Name, prefix),
			Uploaded: attrs.Updated,
			Size:     attrs.Size,
		})
	}
	return objects, nil
}

// Download copies one object to a local file.
func (s *Store) Download(ctx context.Context, root, objectPath, destPath string) error {
	bucket, prefix, err := parseRoot(root)
	if err != nil {
		return err
	}

	name := objectPath
	if prefix != "" {
		name = path.Join(prefix, objectPath)
	}

	rc, err := s.client.Bucket(bucket).Object(name).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to open object %s/%s: %w", bucket, name, err)
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		os.Remove(destPath)
		return fmt.Errorf("failed to download %s/%s: %w", bucket, name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("failed to finish writing %s: %w", destPath, err)
	}
	return nil
}

// parseRoot splits a gs://bucket/prefix location into bucket and prefix. The
// prefix may be empty and never carries a trailing slash.
func parseRoot(root string) (bucket, prefix string, err error) {
	const scheme = "gs://"
	if !strings.HasPrefix(root, scheme) {
		return "", "", fmt.Errorf("bucket root %q must start with %s", root, scheme)
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(root, scheme), "/")
	if rest == "" {
		return "", "", fmt.Errorf("bucket root %q has no bucket name", root)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, prefix, nil
}

func relativePath(name, prefix string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimPrefix(name, prefix+"/")
}
