package ports

import (
	"context"
	"io"
)

// ObjectStorage defines the contract for persisting delivery-proof artifacts.
// Upload returns the durable reference stored on the order.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
}
