package supabase

import (
	"context"
	"fmt"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
	supa "github.com/supabase-community/supabase-go"
	xe "github.com/sareeloom/storefront/pkg/errors"
	"github.com/sareeloom/storefront/pkg/storage"
)

// Bucket is a bucket of object storage.
type Bucket interface {
	Upload(name string, contentType string, body io.Reader) error
	Remove(names []string) error
	PublicURL(name string) string
}

type supabaseBucket struct {
	client *storage_go.Client
	bucket string
}

func (b *supabaseBucket) Upload(name string, contentType string, body io.Reader) error {
	upsert := false
	_, err := b.client.UploadFile(b.bucket, name, body, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	return err
}

func (b *supabaseBucket) Remove(names []string) error {
	_, err := b.client.RemoveFile(b.bucket, names)
	return err
}

func (b *supabaseBucket) PublicURL(name string) string {
	return b.client.GetPublicUrl(b.bucket, name).SignedURL
}

type store struct {
	bucket Bucket
	prefix string
}

// New returns ImageStore on a public bucket of Supabase Storage.
//
// # Args
//
// - projectUrl: URL of the Supabase project, like "https://xyz.supabase.co".
//
// - serviceKey: service role key. It can write into buckets.
//
// - bucket: name of the bucket.
func New(projectUrl, serviceKey, bucket string) (storage.ImageStore, error) {
	client, err := supa.NewClient(projectUrl, serviceKey, nil)
	if err != nil {
		return nil, xe.WrapWithNote("cannot create supabase client", err)
	}
	return WithBucket(&supabaseBucket{client: client.Storage, bucket: bucket}, projectUrl, bucket), nil
}

// WithBucket returns ImageStore on the bucket.
func WithBucket(b Bucket, projectUrl, bucket string) storage.ImageStore {
	return &store{
		bucket: b,
		prefix: fmt.Sprintf("%s/storage/v1/object/public/%s/", strings.TrimRight(projectUrl, "/"), bucket),
	}
}

func (s *store) Put(ctx context.Context, name string, contentType string, body io.Reader) (string, error) {
	if _, err := storage.Extension(contentType); err != nil {
		return "", xe.Wrap(err)
	}
	if err := ctx.Err(); err != nil {
		return "", xe.Wrap(err)
	}
	if err := s.bucket.Upload(name, contentType, body); err != nil {
		return "", xe.WrapWithNote("cannot upload "+name, err)
	}
	return s.bucket.PublicURL(name), nil
}

func (s *store) Remove(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return xe.Wrap(err)
	}
	if err := s.bucket.Remove(names); err != nil {
		return xe.WrapWithNote("cannot remove images", err)
	}
	return nil
}

func (s *store) NameOf(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, s.prefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
