package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archive guarda a planilha gerada e devolve uma URL temporária de download.
type Archive interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

type S3Options struct {
	Bucket   string
	Region   string
	Endpoint string // LocalStack/MinIO; vazio = AWS
	Expires  time.Duration
}

type S3Archive struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	expires   time.Duration
}

func NewS3Archive(ctx context.Context, o S3Options) (*S3Archive, error) {
	loadOpts := []func(*config.LoadOptions) error{}
	if o.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.Region))
	}
	if o.Endpoint != "" {
		// endpoint local aceita qualquer credencial
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test", "test", ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	})

	expires := o.Expires
	if expires <= 0 {
		expires = 15 * time.Minute
	}
	return &S3Archive{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    o.Bucket,
		expires:   expires,
	}, nil
}

func (a *S3Archive) Put(ctx context.Context, key string, data []byte) (string, error) {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	req, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(a.expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign get object: %w", err)
	}
	return req.URL, nil
}

var _ Archive = (*S3Archive)(nil)
