// Package archive uploads generated CSV reports to S3-compatible object
// storage and hands back a presigned download link.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/expensekeeper/internal/server/config"
	"github.com/google/uuid"
)

// PresignValidity bounds the lifetime of returned download URLs.
const PresignValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Archiver stores a report body and returns its object key and a
// time-limited download URL.
type Archiver interface {
	Put(ctx context.Context, userID int64, filename string, body []byte) (key, url string, err error)
}

type S3Archiver struct {
	bucket  string
	client  *s3.Client
	presign *s3.PresignClient
	now     func() time.Time
}

// NewS3Archiver builds a client from the S3* settings of cfg. Static
// credentials are used when S3RootUser is set, otherwise the default AWS
// credential chain applies.
func NewS3Archiver(ctx context.Context, cfg *sc.Config) (*S3Archiver, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.S3Region)}
	if cfg.S3RootUser != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Archiver{
		bucket:  cfg.S3Bucket,
		client:  client,
		presign: newS3PresignClient(client),
		now:     time.Now,
	}, nil
}

// ObjectKey places a report under reports/<user>/<yyyy>/<mm>/<dd>/.
func ObjectKey(userID int64, now time.Time, filename string) string {
	return fmt.Sprintf("reports/%d/%s/%s-%s", userID, now.UTC().Format("2006/01/02"), uuid.New(), filename)
}

func (a *S3Archiver) Put(ctx context.Context, userID int64, filename string, body []byte) (string, string, error) {
	key := ObjectKey(userID, a.now(), filename)

	_, err := putObject(a.client, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("text/csv"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", "", fmt.Errorf("put object %s: %w", key, err)
	}

	req, err := presignGetObject(a.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignValidity))
	if err != nil {
		return "", "", fmt.Errorf("presign %s: %w", key, err)
	}

	return key, req.URL, nil
}
