// Package storage uploads product images to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

var (
	ErrImageTooLarge    = fmt.Errorf("image larger than %d MB", MaxImageSize>>20)
	ErrUnsupportedImage = errors.New("image must be jpeg, png or webp")
	ErrEmptyImage       = errors.New("image is empty")
)

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageStore writes images under a fixed prefix and returns their public URL.
type ImageStore struct {
	client  putObjectAPI
	bucket  string
	baseURL string
	prefix  string
	logger  *zap.Logger
}

type Option func(*ImageStore)

func WithLogger(logger *zap.Logger) Option {
	return func(s *ImageStore) {
		if logger != nil {
			s.logger = logger.Named("storage")
		}
	}
}

// WithPrefix sets the key prefix, "products" by default.
func WithPrefix(prefix string) Option {
	return func(s *ImageStore) { s.prefix = strings.Trim(prefix, "/") }
}

// NewS3 builds an ImageStore from cfg using static credentials.
func NewS3(ctx context.Context, cfg config.StorageConfig, opts ...Option) (*ImageStore, error) {
	if !cfg.Enabled() {
		return nil, errors.New("storage bucket and credentials are required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		switch {
		case cfg.Endpoint != "":
			baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		default:
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}
	return newImageStore(client, cfg.Bucket, baseURL, opts...), nil
}

func newImageStore(client putObjectAPI, bucket, baseURL string, opts ...Option) *ImageStore {
	s := &ImageStore{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  "products",
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DetectImageType sniffs data and returns its MIME type if it is an accepted
// image format.
func DetectImageType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}
	ct := http.DetectContentType(data)
	if _, ok := extensions[ct]; !ok {
		return "", ErrUnsupportedImage
	}
	return ct, nil
}

// UploadImage validates data and stores it under a random key.
func (s *ImageStore) UploadImage(ctx context.Context, data []byte) (string, error) {
	ct, err := DetectImageType(data)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%s.%s", s.prefix, uuid.NewString(), extensions[ct])
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(ct),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	}); err != nil {
		s.logger.Error("image upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	s.logger.Info("image uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return s.baseURL + "/" + key, nil
}
