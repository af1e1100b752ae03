// Package gcs implements the image store: client and product photos are
// uploaded to a Cloud Storage bucket and referenced everywhere else by
// their public https URL, which is the only form the sanitizer lets
// through to the remote document.
package gcs

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Uploader writes objects to a single bucket/folder.
type Uploader struct {
	client *storage.Client
	bucket string
	folder string
}

// NewUploader connects to Cloud Storage. credentialsFile may be empty to
// use Application Default Credentials.
func NewUploader(ctx context.Context, bucket, folder, credentialsFile string) (*Uploader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Uploader{client: client, bucket: bucket, folder: folder}, nil
}

// Close releases the underlying connection.
func (u *Uploader) Close() error {
	return u.client.Close()
}

// UploadFile uploads a local image and returns its public https URL. The
// object name is randomized so repeated uploads of the same file never
// collide.
func (u *Uploader) UploadFile(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file %q: %w", filePath, err)
	}
	defer f.Close()

	ext := strings.ToLower(path.Ext(filePath))
	objectName := uuid.NewString() + ext
	if u.folder != "" {
		objectName = strings.Trim(u.folder, "/") + "/" + objectName
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	if ct := mime.TypeByExtension(ext); ct != "" {
		w.ContentType = ct
	}

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy file to storage writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	return PublicURL(u.bucket, objectName), nil
}

// PublicURL builds the https URL for an object in a public bucket.
func PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}
