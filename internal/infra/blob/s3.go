package blob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/meurdo/meurdo-api/internal/config"
)

type S3Deps struct {
	Client        *s3.Client
	Uploader      *manager.Uploader
	PublicBaseURL string
	Buckets       config.BucketsCfg
}

func NewS3(ctx context.Context, cfg *config.Config) (*S3Deps, error) {
	loadOpts := []func(*awsCfg.LoadOptions) error{
		awsCfg.WithRegion(cfg.S3.Region),
	}
	if cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" {
		loadOpts = append(loadOpts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}

	acfg, err := awsCfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	s3Opts := func(o *s3.Options) {
		if ep := strings.TrimSpace(cfg.S3.Endpoint); ep != "" {
			if !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
				ep = "https://" + ep
			}
			if u, uerr := url.Parse(ep); uerr == nil {
				o.BaseEndpoint = aws.String(u.String())
			}
		}
		o.UsePathStyle = cfg.S3.UsePathStyle
	}

	client := s3.NewFromConfig(acfg, s3Opts)

	return &S3Deps{
		Client:        client,
		Uploader:      manager.NewUploader(client),
		PublicBaseURL: strings.TrimRight(cfg.S3.PublicBaseURL, "/"),
		Buckets:       cfg.S3.Buckets,
	}, nil
}

type UploadedMeta struct {
	Bucket    string
	Key       string
	ETag      string
	SHA256    string
	MIME      string
	SizeB     int64
	PublicURL string
}

// Put uploads body under bucket/key and returns its metadata with the public URL.
// The URL is returned as soon as the PUT succeeds; CDN availability is not checked.
func (u *S3Deps) Put(ctx context.Context, bucket, key, contentType string, body []byte) (*UploadedMeta, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is empty")
	}
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	sum := sha256.Sum256(body)
	sumHex := hex.EncodeToString(sum[:])

	out, err := u.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"sha256": sumHex,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s/%s: %w", bucket, key, err)
	}

	etag := ""
	if out.ETag != nil {
		etag = *out.ETag
	}

	return &UploadedMeta{
		Bucket:    bucket,
		Key:       key,
		ETag:      etag,
		SHA256:    sumHex,
		MIME:      contentType,
		SizeB:     int64(len(body)),
		PublicURL: u.PublicURL(bucket, key),
	}, nil
}

// PublicURL follows the storage layout {base}/{bucket}/{key}.
func (u *S3Deps) PublicURL(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/%s/%s", u.PublicBaseURL, bucket, strings.Join(segments, "/"))
}
