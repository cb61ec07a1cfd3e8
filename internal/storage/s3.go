package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	graphserrors "github.com/23skdu/graphserving/internal/errors"
)

// S3Config holds configuration for the remote object-store backend. The
// server populates it from its S3_* configuration fields.
type S3Config struct {
	Endpoint        string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	UsePathStyle    bool
}

func (c *S3Config) validate() error {
	if c.Bucket == "" {
		return errors.New("s3 bucket is required")
	}
	return nil
}

// S3Backend opens partition files stored under an S3-compatible bucket.
// Each Open downloads the whole object into memory; node-map and
// partition files are read once at startup so this trades a larger
// initial fetch for a simple ReaderAt implementation.
type S3Backend struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Backend creates a Backend backed by an S3-compatible bucket.
func NewS3Backend(ctx context.Context, cfg S3Config) (*S3Backend, error) {
	if err := cfg.validate(); err != nil {
		return nil, graphserrors.WrapConfigurationError(err, "NewS3Backend", "invalid s3 storage config")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(region),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			),
		)
	} else {
		awsCfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(region))
	}
	if err != nil {
		return nil, graphserrors.WrapNetworkError(err, "NewS3Backend", "failed to load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Backend{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.TrimSuffix(cfg.Prefix, "/"),
	}, nil
}

func (b *S3Backend) key(name string) string {
	if b.prefix == "" {
		return name
	}
	return path.Join(b.prefix, name)
}

func (b *S3Backend) Open(name string) (Reader, error) {
	ctx := context.Background()
	key := b.key(name)
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, graphserrors.WrapStorageError(err, "S3Backend.Open", fmt.Sprintf("failed to fetch s3://%s/%s", b.bucket, key))
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, graphserrors.WrapStorageError(err, "S3Backend.Open", "failed to read s3 object body")
	}
	return &s3Reader{data: data}, nil
}

func (b *S3Backend) List(dir string) ([]string, error) {
	ctx := context.Background()
	prefix := b.key(dir)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var names []string
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, graphserrors.WrapStorageError(err, "S3Backend.List", "failed to list s3 objects under "+prefix)
		}
		for _, obj := range page.Contents {
			names = append(names, path.Base(aws.ToString(obj.Key)))
		}
	}
	return names, nil
}

type s3Reader struct {
	data []byte
}

func (r *s3Reader) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(r.data).ReadAt(p, off)
}

func (r *s3Reader) Close() error { return nil }

func (r *s3Reader) Size() int64 { return int64(len(r.data)) }
