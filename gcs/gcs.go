package gcs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/apex/log"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Uploader stores report attachments in a Google Cloud Storage bucket and returns
// their public URLs.
type Uploader struct {
	client *storage.Client
	bucket string
	folder string
}

// New connects to GCS and checks the bucket is reachable. credentialsFile may be empty
// to use application default credentials.
func New(ctx context.Context, bucket, folder, credentialsFile string) (*Uploader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect gcs: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("bucket %s: %w", bucket, err)
	}
	log.WithField("bucket", bucket).Info("GCS bucket ready")

	return &Uploader{client: client, bucket: bucket, folder: folder}, nil
}

func (u *Uploader) Close() error {
	return u.client.Close()
}

// Encode uploads one attachment and returns its public URL.
func (u *Uploader) Encode(ctx context.Context, name, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectName := ObjectName(u.folder, name, time.Now())

	w := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finish upload %s: %w", name, err)
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, objectName)
	log.WithField("object", objectName).Info("attachment uploaded")
	return url, nil
}

// ObjectName builds a collision-free object path that keeps the original extension.
func ObjectName(folder, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("%s/%s_%d%s", folder, uuid.NewString(), now.UnixNano(), ext)
}
