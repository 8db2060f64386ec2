package secondary

import (
	"context"
	"time"
)

// StoredObject is one object listed from the cloud bucket.
type StoredObject struct {
	// Path is the object name relative to the listing root.
	Path string
	// Uploaded is when the object landed in the bucket.
	Uploaded time.Time
	// Size is the object size in bytes.
	Size int64
}

// ObjectStore defines the secondary port for the cloud bucket holding raw
// headband uploads.
type ObjectStore interface {
	// List enumerates every object under root. root is a gs://bucket/prefix
	// style location.
	List(ctx context.Context, root string) ([]StoredObject, error)

	// Download copies one object to a local file, creating parent
	// directories as needed.
	Download(ctx context.Context, root, objectPath, destPath string) error
}
