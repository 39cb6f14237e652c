package mock

import (
	"context"
	"io"

	"github.com/sareeloom/storefront/pkg/storage"
)

type PutArgs struct {
	Name        string
	ContentType string
	Body        []byte
}

type ImageStore struct {
	Impl struct {
		Put    func(ctx context.Context, name string, contentType string, body []byte) (string, error)
		Remove func(ctx context.Context, names ...string) error
		NameOf func(url string) (string, bool)
	}
	Calls struct {
		Put    []PutArgs
		Remove [][]string
		NameOf []string
	}
}

func New() *ImageStore {
	return &ImageStore{}
}

var _ storage.ImageStore = &ImageStore{}

func (m *ImageStore) Put(ctx context.Context, name string, contentType string, body io.Reader) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.Calls.Put = append(m.Calls.Put, PutArgs{Name: name, ContentType: contentType, Body: b})
	if m.Impl.Put != nil {
		return m.Impl.Put(ctx, name, contentType, b)
	}
	panic("it should not be called")
}

func (m *ImageStore) Remove(ctx context.Context, names ...string) error {
	m.Calls.Remove = append(m.Calls.Remove, names)
	if m.Impl.Remove != nil {
		return m.Impl.Remove(ctx, names...)
	}
	panic("it should not be called")
}

func (m *ImageStore) NameOf(url string) (string, bool) {
	m.Calls.NameOf = append(m.Calls.NameOf, url)
	if m.Impl.NameOf != nil {
		return m.Impl.NameOf(url)
	}
	panic("it should not be called")
}
