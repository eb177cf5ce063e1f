package port

import (
	"context"
	"io"
	"time"
)

// UploadInput describes an object written to the artifact bucket.
type UploadInput struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage keeps GSP batch archives and MIS workbooks in the artifact
// bucket.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	// PresignGet returns a time limited download URL for key.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
