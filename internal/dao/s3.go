package dao

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/smarttable/smarttable/internal/aws"
	"github.com/smarttable/smarttable/internal/model1"
)

// S3Getter is the slice of the S3 API needed to read a dataset object.
type S3Getter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadS3 reads a dataset object. The format is guessed from the key.
func LoadS3(ctx context.Context, client S3Getter, bucket, key string) (model1.Rows, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, aws.WrapAWSError(err, "get object s3://"+bucket+"/"+key)
	}
	defer out.Body.Close()

	return LoadReader(out.Body, FormatFor(key))
}

// S3Source serves an S3 dataset object through the remote contract. The
// object is downloaded on the first fetch and paged from memory afterwards.
type S3Source struct {
	client      S3Getter
	bucket, key string
	sorter      model1.Sorter
	filterer    model1.Filterer

	paged *PagedCollection
	mx    sync.Mutex
}

// NewS3Source returns a remote fetcher over an S3 object.
func NewS3Source(client S3Getter, bucket, key string, s model1.Sorter, f model1.Filterer) *S3Source {
	return &S3Source{
		client:   client,
		bucket:   bucket,
		key:      key,
		sorter:   s,
		filterer: f,
	}
}

// Fetch implements Fetcher.
func (s *S3Source) Fetch(ctx context.Context, q Query) (*Page, error) {
	paged, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	return paged.Fetch(ctx, q)
}

func (s *S3Source) collection(ctx context.Context) (*PagedCollection, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.paged != nil {
		return s.paged, nil
	}
	rows, err := LoadS3(ctx, s.client, s.bucket, s.key)
	if err != nil {
		return nil, err
	}
	s.paged = NewPagedCollection(NewCollection(rows), s.sorter, s.filterer)

	return s.paged, nil
}
