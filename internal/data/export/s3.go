package export

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultRegion = "us-east-1"

// S3Config describes the target object. Endpoint and PathStyle allow
// S3-compatible stores such as MinIO.
type S3Config struct {
	Region    string
	Endpoint  string
	PathStyle bool
	Bucket    string
	Key       string
}

// S3ConfigFromEnv reads PKVIZ_S3_REGION, PKVIZ_S3_ENDPOINT and
// PKVIZ_S3_PATH_STYLE.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Region:    os.Getenv("PKVIZ_S3_REGION"),
		Endpoint:  os.Getenv("PKVIZ_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("PKVIZ_S3_PATH_STYLE"), "true"),
	}
}

type S3Sink struct {
	client *s3.Client
	bucket string
	key    string
}

func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3 bucket and key required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3Sink(client, cfg.Bucket, cfg.Key), nil
}

func newS3Sink(client *s3.Client, bucket, key string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, key: key}
}

func (s *S3Sink) Put(ctx context.Context, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	return err
}

func (s *S3Sink) String() string {
	return "s3://" + s.bucket + "/" + s.key
}

// ParseS3URL splits s3://bucket/key/path into bucket and key.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse s3 url: %w", err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 url: %s", raw)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 url needs bucket and key: %s", raw)
	}
	return bucket, key, nil
}
