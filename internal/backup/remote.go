package backup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// objectPutter is the slice of the S3 client the remote needs; an interface
// for testability.
type objectPutter interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// RemoteConfig holds S3-compatible storage configuration for off-device
// backup copies.
type RemoteConfig struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Configured reports whether the config names a usable target.
func (c RemoteConfig) Configured() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Remote copies backup files to S3-compatible storage. It is optional: a nil
// Remote is valid and uploads nothing.
type Remote struct {
	client objectPutter
	bucket string
	prefix string
	logger *slog.Logger
}

// NewRemote builds a Remote from config, or returns nil when the target is
// not configured.
func NewRemote(cfg RemoteConfig, logger *slog.Logger) *Remote {
	if !cfg.Configured() {
		return nil
	}

	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if opts.Region == "" {
		opts.Region = "auto"
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return &Remote{
		client: s3.New(opts),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}
}

// Upload copies the backup file at filePath to the remote bucket and returns
// the object key.
func (r *Remote) Upload(ctx context.Context, filePath string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("remote backup target not configured")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read backup for upload: %w", err)
	}

	key := path.Join(r.prefix, path.Base(filePath))
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload backup: %w", err)
	}

	r.logger.Info("backup uploaded", "key", key, "bytes", len(data))
	return key, nil
}
