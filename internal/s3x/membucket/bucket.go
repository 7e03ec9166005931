// Package membucket is an in-process bucket implementing the subset of the
// S3 API used by the document backend and the blob store. The memory
// backend of the admin CLI stores its documents and photos here, and tests
// use it in place of a real S3 endpoint.
package membucket

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Bucket is a single in-memory bucket. Set the *Err fields to make the matching
// call fail. PageSize > 0 splits listings into pages.
type Bucket struct {
	Name     string
	PageSize int

	GetErr    error
	PutErr    error
	DeleteErr error
	ListErr   error
	HeadErr   error

	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	Puts         int
}

func New(name string) *Bucket {
	return &Bucket{Name: name, objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (b *Bucket) Object(key string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.objects[key]
	return v, ok
}

func (b *Bucket) ContentType(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.contentTypes[key]
}

func (b *Bucket) SetObject(key string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
}

func (b *Bucket) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *Bucket) checkBucket(name *string) error {
	if aws.ToString(name) != b.Name {
		return &types.NoSuchBucket{Message: aws.String("no such bucket")}
	}
	return nil
}

func (b *Bucket) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if b.GetErr != nil {
		return nil, b.GetErr
	}
	if err := b.checkBucket(in.Bucket); err != nil {
		return nil, err
	}
	data, ok := b.Object(aws.ToString(in.Key))
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (b *Bucket) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if b.PutErr != nil {
		return nil, b.PutErr
	}
	if err := b.checkBucket(in.Bucket); err != nil {
		return nil, err
	}
	if in.Body == nil {
		return nil, errors.New("missing body")
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	key := aws.ToString(in.Key)
	b.objects[key] = data
	b.contentTypes[key] = aws.ToString(in.ContentType)
	b.Puts++
	return &s3.PutObjectOutput{}, nil
}

func (b *Bucket) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if b.DeleteErr != nil {
		return nil, b.DeleteErr
	}
	if err := b.checkBucket(in.Bucket); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, aws.ToString(in.Key))
	delete(b.contentTypes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (b *Bucket) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if b.ListErr != nil {
		return nil, b.ListErr
	}
	if err := b.checkBucket(in.Bucket); err != nil {
		return nil, err
	}

	prefix := aws.ToString(in.Prefix)
	start := aws.ToString(in.ContinuationToken)

	var matched []string
	for _, k := range b.Keys() {
		if strings.HasPrefix(k, prefix) && k > start {
			matched = append(matched, k)
		}
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if b.PageSize > 0 && len(matched) > b.PageSize {
		matched = matched[:b.PageSize]
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(matched[len(matched)-1])
	}
	for _, k := range matched {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (b *Bucket) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if b.HeadErr != nil {
		return nil, b.HeadErr
	}
	if err := b.checkBucket(in.Bucket); err != nil {
		return nil, err
	}
	return &s3.HeadBucketOutput{}, nil
}
