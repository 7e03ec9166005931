// Package s3x builds S3 clients for AWS and S3-compatible servers (MinIO).
package s3x

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Settings are the connection parameters of an object store.
type Settings struct {
	AccessKey string
	SecretKey string
	Region    string
	// Endpoint overrides the AWS endpoint, e.g. "http://127.0.0.1:9000".
	// Path-style addressing is used whenever it is set.
	Endpoint string
}

// loadDefaultConfig is a seam for config.LoadDefaultConfig.
var loadDefaultConfig = config.LoadDefaultConfig

func NewClient(ctx context.Context, s Settings) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(s.Region)}
	if s.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")))
	}

	cfg, err := loadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// PublicBaseURL is the URL prefix under which objects of bucket are
// served, without a trailing slash.
func PublicBaseURL(s Settings, bucket string) string {
	if s.Endpoint != "" {
		return strings.TrimRight(s.Endpoint, "/") + "/" + bucket
	}
	region := s.Region
	if region == "" {
		region = "us-east-1"
	}
	return "https://" + bucket + ".s3." + region + ".amazonaws.com"
}
