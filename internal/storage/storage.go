// Package storage сохраняет картинки рецептов: на локальный диск или в S3.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxImageSize = 5 * 1024 * 1024

var (
	ErrBadDataURI   = errors.New("image must be a base64 data URI")
	ErrImageTooBig  = errors.New("image is too large")
	ErrNotAnImage   = errors.New("unsupported image type")
	allowedMimeExts = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
)

// Storage сохраняет объект и возвращает его публичный URL.
type Storage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Image: декодированная картинка из запроса.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// DecodeBase64Image разбирает data:image/<type>;base64,<payload>.
// Тип определяется по содержимому, заявленному в префиксе не верим.
func DecodeBase64Image(dataURI string) (*Image, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(dataURI), ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrBadDataURI
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return nil, ErrImageTooBig
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
	}
	if len(data) == 0 {
		return nil, ErrBadDataURI
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooBig
	}

	mime := strings.Split(http.DetectContentType(data), ";")[0]
	ext, ok := allowedMimeExts[mime]
	if !ok {
		return nil, ErrNotAnImage
	}
	return &Image{Data: data, ContentType: mime, Ext: ext}, nil
}

// NewKey строит уникальный ключ вида recipes/2024/05/01/<uuid>.png.
func NewKey(prefix, ext string, now time.Time) string {
	return path.Join(prefix,
		fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day()),
		uuid.New().String()+ext)
}
