package service

import (
	"context"
	"fmt"
	"io"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
)

// StorageClient uploads binary payloads to the project's storage bucket and
// hands back a durable public URL.
type StorageClient struct {
	app    *firebase.App
	bucket string
}

func NewStorageClient(app *firebase.App, bucket string) *StorageClient {
	return &StorageClient{
		app:    app,
		bucket: bucket,
	}
}

// Upload stores the payload under a generated object name. The object name is
// random, so repeated uploads of the same image never collide.
func (s *StorageClient) Upload(ctx context.Context, r io.Reader, contentType string) (string, error) {
	client, err := s.app.Storage(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting storage client: %w", err)
	}
	bucket, err := client.Bucket(s.bucket)
	if err != nil {
		return "", fmt.Errorf("error getting bucket: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	name := fmt.Sprintf("pets/%s", uuid.NewString())
	w := bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("error writing object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("error finalizing object: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, name), nil
}
