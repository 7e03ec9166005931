// Package blobs stores uploaded gallery images.
package blobs

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store saves binary payloads under a key and hands back a URL a browser
// can load.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL reverses Put's URL; ok is false for URLs the store does
	// not own.
	KeyFromURL(url string) (key string, ok bool)
}

var whitespace = regexp.MustCompile(`\s+`)

// Key builds the object key of an uploaded file: the photo id, a dash, and
// the file name with whitespace runs replaced by dashes.
func Key(id, fileName string) string {
	return id + "-" + whitespace.ReplaceAllString(fileName, "-")
}

// ObjectAPI is the part of *s3.Client the store needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	api     ObjectAPI
	bucket  string
	baseURL string
}

// NewS3Store stores objects in bucket; baseURL is the public prefix the
// bucket is served from (see s3x.PublicBaseURL).
func NewS3Store(api ObjectAPI, bucket, baseURL string) *S3Store {
	return &S3Store{api: api, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.api.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}
