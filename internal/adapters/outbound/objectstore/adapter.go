package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/skillcoder/podlog-archiver/internal/logic/archiver"
)

var ErrBucketNotFound = errors.New("bucket does not exist")

type Config struct {
	// Endpoint may carry an http:// or https:// scheme; https enables TLS.
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	CreateBucket bool
}

// Adapter writes archive objects to an S3 compatible bucket.
type Adapter struct {
	logger *slog.Logger
	client *minio.Client
	cfg    Config
	ready  chan struct{}
}

var _ archiver.ObjectStore = (*Adapter)(nil)

// New creates the minio client. No request is made until Start.
func New(logger *slog.Logger, cfg Config) (*Adapter, error) {
	host, secure := ParseEndpoint(cfg.Endpoint)

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Adapter{
		logger: logger.With("component", "objectstore", "endpoint", host, "bucket", cfg.Bucket),
		client: client,
		cfg:    cfg,
		ready:  make(chan struct{}),
	}, nil
}

// ParseEndpoint strips the scheme from endpoint and reports whether TLS is used.
func ParseEndpoint(endpoint string) (string, bool) {
	endpoint = strings.TrimSpace(endpoint)

	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), false
	default:
		return strings.TrimSuffix(endpoint, "/"), false
	}
}

func (a *Adapter) Name() string {
	return "objectstore"
}

// Start makes sure the bucket exists, creating it when configured to.
func (a *Adapter) Start(ctx context.Context) error {
	err := a.EnsureBucketCommand(ctx)
	if err != nil {
		return err
	}

	close(a.ready)

	return nil
}

func (a *Adapter) Ready() <-chan struct{} {
	return a.ready
}

// PingerCritical keeps an unreachable bucket from failing liveness; readiness still drops.
func (a *Adapter) PingerCritical() bool {
	return false
}

// Shutdown is a no-op; the minio client only holds pooled connections.
func (a *Adapter) Shutdown(context.Context) error {
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}

	if !exists {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, a.cfg.Bucket)
	}

	return nil
}

func (a *Adapter) EnsureBucketCommand(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}

	if exists {
		return nil
	}

	if !a.cfg.CreateBucket {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, a.cfg.Bucket)
	}

	err = a.client.MakeBucket(ctx, a.cfg.Bucket, minio.MakeBucketOptions{})
	if err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}

	a.logger.InfoContext(ctx, "bucket created")

	return nil
}

func (a *Adapter) PutObjectCommand(ctx context.Context, object archiver.ArchiveObject) error {
	info, err := a.client.PutObject(
		ctx,
		a.cfg.Bucket,
		object.Key,
		bytes.NewReader(object.Payload),
		int64(len(object.Payload)),
		minio.PutObjectOptions{ContentType: object.ContentType},
	)
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}

	a.logger.DebugContext(ctx, "object stored", "key", info.Key, "etag", info.ETag, "size", info.Size)

	return nil
}
