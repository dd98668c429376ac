package storage

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/wahlware/wahlhost/internal/config"
)

// BlobClient stores blobs in an S3-compatible bucket, addressed by path.
// Public URLs resolve under the configured base URL.
type BlobClient struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

var _ BlobStore = (*BlobClient)(nil)

func NewBlobClient(ctx context.Context, cfg *config.BlobConfig) (*BlobClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "")))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &BlobClient{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

func (b *BlobClient) Put(ctx context.Context, path string, data []byte, access Access) (*PutResult, error) {
	path = strings.TrimPrefix(path, "/")

	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(path),
		Body:   bytes.NewReader(data),
	}
	if access == AccessPublic {
		input.ACL = s3types.ObjectCannedACLPublicRead
	}

	if _, err := b.client.PutObject(ctx, input); err != nil {
		return nil, err
	}

	return &PutResult{
		Pathname: path,
		URL:      b.baseURL + "/" + path,
	}, nil
}

func (b *BlobClient) DeleteByPath(ctx context.Context, path string) error {
	path = strings.TrimPrefix(path, "/")
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(path),
	})
	return err
}
