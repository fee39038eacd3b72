package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader is the image hosting boundary. Delete is idempotent:
// deleting a missing object is success. Move relocates an object under a
// new key (copy, then delete the original).
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	Move(ctx context.Context, sourceKey, destinationKey string) (*UploadResult, error)

	GetPublicURL(key string) string
}

// ObjectKey builds a per-team object key with a random component, so two
// uploads with the same filename never collide.
func ObjectKey(folder, filename string) string {
	filename = strings.ReplaceAll(strings.TrimSpace(filename), " ", "_")
	return fmt.Sprintf("%s/%s_%s", strings.Trim(folder, "/"), uuid.NewString(), filename)
}
