// Package document is the document-shaped Backend. Each record is a JSON
// object stored at "<collection>/<id>.json" in an S3-compatible bucket; the
// object key is the document id.
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
)

const suffix = ".json"

// ObjectAPI is the part of *s3.Client the store needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

type Store struct {
	api    ObjectAPI
	bucket string
	logger logging.Logger
}

func New(api ObjectAPI, bucket string, l logging.Logger) *Store {
	if l == nil {
		l = logging.Nop{}
	}
	return &Store{api: api, bucket: bucket, logger: l.With("module", "document")}
}

func objectKey(collection, id string) string {
	return collection + "/" + id + suffix
}

func (s *Store) Flavor() backend.Flavor {
	return backend.Document
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

// List returns the documents of a collection in key order.
func (s *Store) List(ctx context.Context, collection string) ([]backend.Record, error) {
	prefix := collection + "/"
	p := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	out := make([]backend.Record, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			id, ok := docID(prefix, key)
			if !ok {
				continue
			}
			rec, err := s.Get(ctx, collection, id)
			if errors.Is(err, common.ErrNotFound) {
				// deleted between list and get
				continue
			}
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
	}
	return out, nil
}

func docID(prefix, key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok || !strings.HasSuffix(rest, suffix) {
		return "", false
	}
	id := strings.TrimSuffix(rest, suffix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func (s *Store) Get(ctx context.Context, collection, id string) (backend.Record, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(collection, id)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", collection, id, err)
	}

	rec := backend.Record{}
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	rec[backend.IDField] = id
	return rec, nil
}

// Insert writes the document, replacing any document with the same id.
func (s *Store) Insert(ctx context.Context, collection string, rec backend.Record) error {
	id := rec.ID()
	if id == "" {
		return fmt.Errorf("insert %s: %w: missing id", collection, common.ErrInvalidArgument)
	}
	return s.put(ctx, collection, id, rec)
}

// Update merges fields into the stored document.
func (s *Store) Update(ctx context.Context, collection, id string, fields backend.Record) error {
	rec, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	for k, v := range fields {
		if k == backend.IDField {
			continue
		}
		rec[k] = v
	}
	return s.put(ctx, collection, id, rec)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(collection, id)),
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, collection, id string, rec backend.Record) error {
	doc := rec.Clone()
	delete(doc, backend.IDField)

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(collection, id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	s.logger.Debug(ctx, "document written", "collection", collection, "id", id)
	return nil
}
