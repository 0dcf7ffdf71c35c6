package service

import (
	"context"

	"github.com/meurdo/meurdo-api/internal/infra/blob"
)

// ObjectStore is the part of the S3 store the services depend on.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key, contentType string, body []byte) (*blob.UploadedMeta, error)
}

// attachmentStore puts form photos into the attachments bucket.
type attachmentStore struct {
	store  ObjectStore
	bucket string
}

func (a attachmentStore) PutAttachment(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	meta, err := a.store.Put(ctx, a.bucket, key, contentType, body)
	if err != nil {
		return "", err
	}
	return meta.PublicURL, nil
}
