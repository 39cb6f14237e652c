// Package storage stores product images in an object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported image type")

type ImageStore interface {
	// Put stores the image as name.
	//
	// # Returns
	//
	// - string: public URL of the image.
	Put(ctx context.Context, name string, contentType string, body io.Reader) (string, error)

	// Remove images by names. Missing names are ignored.
	Remove(ctx context.Context, names ...string) error

	// NameOf returns the name of the image at the public URL.
	//
	// false when the URL does not point an image in this store.
	NameOf(url string) (string, bool)
}

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Extension returns the file extension for the content type of image.
//
// # Returns
//
// - error: ErrUnsupportedType unless it is jpeg, png or webp.
func Extension(contentType string) (string, error) {
	ct, _, _ := strings.Cut(contentType, ";")
	ext, ok := extensions[strings.ToLower(strings.TrimSpace(ct))]
	if !ok {
		return "", fmt.Errorf("%w: %q (jpeg, png or webp are accepted)", ErrUnsupportedType, contentType)
	}
	return ext, nil
}

// Sniff reads the head of body and tells the content type of it.
//
// # Returns
//
// - string: the content type.
//
// - io.Reader: reader yielding whole content of body, including the head.
//
// - error: ErrUnsupportedType when body is not a supported image.
func Sniff(body io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	ct := http.DetectContentType(head)
	if _, err := Extension(ct); err != nil {
		return "", nil, err
	}
	return ct, io.MultiReader(bytes.NewReader(head), body), nil
}

// ProductImageName returns a new name for an image of the product: "products/<productId>/<uuid>.<ext>".
func ProductImageName(productId string, contentType string) (string, error) {
	ext, err := Extension(contentType)
	if err != nil {
		return "", err
	}
	return path.Join("products", productId, uuid.NewString()+"."+ext), nil
}
