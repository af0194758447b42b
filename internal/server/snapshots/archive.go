// Package snapshots copies accepted task documents to object storage so a
// user's history can be recovered after a bad overwrite.
package snapshots

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/dmitrijs2005/gophtasks/internal/server/config"
)

// Archive stores one snapshot and returns its key.
type Archive interface {
	Put(ctx context.Context, userID int64, data []byte) (string, error)
}

// NopArchive drops every snapshot.
type NopArchive struct{}

func (NopArchive) Put(context.Context, int64, []byte) (string, error) { return "", nil }

// Key is the object key of a snapshot taken at t.
func Key(userID int64, t time.Time, id uuid.UUID) string {
	t = t.UTC()
	return fmt.Sprintf("users/%d/%04d/%02d/%02d/%s.json", userID, t.Year(), t.Month(), t.Day(), id)
}

type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Seams for tests.
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Archive struct {
	client putter
	bucket string
	now    func() time.Time
}

// NewS3Archive builds an archive over the bucket in c. A base endpoint
// switches the client to path-style addressing for S3-compatible stores.
func NewS3Archive(ctx context.Context, c *sc.Config) (*S3Archive, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.S3Region)}
	if c.S3AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.S3AccessKey, c.S3SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Archive{client: client, bucket: c.S3Bucket, now: time.Now}, nil
}

func (a *S3Archive) Put(ctx context.Context, userID int64, data []byte) (string, error) {
	key := Key(userID, a.now(), uuid.New())

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put snapshot %s: %w", key, err)
	}
	return key, nil
}
