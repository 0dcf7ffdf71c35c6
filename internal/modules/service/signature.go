package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/meurdo/meurdo-api/internal/config"
	"github.com/meurdo/meurdo-api/internal/pkg/signature"
	"github.com/meurdo/meurdo-api/internal/pkg/utils"
	"go.uber.org/zap"
)

const (
	SignerResponsible = "responsible"
	SignerClient      = "client"
)

type SaveSignatureInput struct {
	// RdoID scopes the object key; nil stores it under "new".
	RdoID     *uuid.UUID
	Role      string
	Signature signature.Input
}

type SavedSignature struct {
	URL      string `json:"url"`
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
	Fallback bool   `json:"fallback"`
}

type SignatureService interface {
	Save(ctx context.Context, in SaveSignatureInput) (*SavedSignature, error)
}

type signatureService struct {
	store   ObjectStore
	buckets config.BucketsCfg
	log     *zap.Logger
}

func NewSignatureService(store ObjectStore, buckets config.BucketsCfg, log *zap.Logger) SignatureService {
	return &signatureService{store: store, buckets: buckets, log: log}
}

// Save rasterizes and uploads a signature. The signatures bucket is tried
// first and the attachments bucket once after it; when both fail the error
// is an *UploadError naming the two.
func (s *signatureService) Save(ctx context.Context, in SaveSignatureInput) (*SavedSignature, error) {
	if in.Role != SignerResponsible && in.Role != SignerClient {
		return nil, fmt.Errorf("%w: unknown signer role %q", ErrInvalidInput, in.Role)
	}

	png, err := in.Signature.PNG()
	switch {
	case errors.Is(err, signature.ErrEmpty):
		return nil, ErrEmptySignature
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	scope := "new"
	if in.RdoID != nil {
		scope = in.RdoID.String()
	}
	key := fmt.Sprintf("signatures/%s/%s_%s.png", scope, in.Role, utils.RandomSuffix())

	meta, perr := s.store.Put(ctx, s.buckets.Signatures, key, "image/png", png)
	if perr == nil {
		return &SavedSignature{URL: meta.PublicURL, Bucket: meta.Bucket, Key: key}, nil
	}
	s.log.Sugar().Warnw("signature upload failed, trying fallback bucket",
		"bucket", s.buckets.Signatures, "fallback", s.buckets.Attachments, "key", key, "err", perr)

	meta, ferr := s.store.Put(ctx, s.buckets.Attachments, key, "image/png", png)
	if ferr == nil {
		return &SavedSignature{URL: meta.PublicURL, Bucket: meta.Bucket, Key: key, Fallback: true}, nil
	}
	s.log.Sugar().Errorw("signature upload failed in both buckets", "key", key, "err", ferr)
	return nil, &UploadError{
		Primary:     s.buckets.Signatures,
		PrimaryErr:  perr,
		Fallback:    s.buckets.Attachments,
		FallbackErr: ferr,
	}
}
