package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// минимальный валидный PNG 1x1
const pngB64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestDecodeBase64Image(t *testing.T) {
	img, err := DecodeBase64Image("data:image/png;base64," + pngB64)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Ext)
	assert.NotEmpty(t, img.Data)
}

func TestDecodeBase64Image_Errors(t *testing.T) {
	_, err := DecodeBase64Image("not a data uri")
	assert.ErrorIs(t, err, ErrBadDataURI)

	_, err = DecodeBase64Image("data:image/png;base64,!!!")
	assert.ErrorIs(t, err, ErrBadDataURI)

	text := base64.StdEncoding.EncodeToString([]byte("hello, plain text"))
	_, err = DecodeBase64Image("data:image/png;base64," + text)
	assert.ErrorIs(t, err, ErrNotAnImage)

	big := base64.StdEncoding.EncodeToString(make([]byte, MaxImageSize+10))
	_, err = DecodeBase64Image("data:image/png;base64," + big)
	assert.ErrorIs(t, err, ErrImageTooBig)
}

func TestNewKey(t *testing.T) {
	key := NewKey("recipes", ".png", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(key, "recipes/2024/05/01/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
}

func TestLocal_Save(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/media/")

	url, err := l.Save(context.Background(), "recipes/a.png", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "recipes", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	_, err = l.Save(context.Background(), "../escape.png", []byte("x"), "image/png")
	assert.Error(t, err)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func TestS3_Save(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "food" && *in.Key == "recipes/a.png" && *in.ContentType == "image/png"
	})).Return(&s3.PutObjectOutput{}, nil)

	s := NewS3WithClient(client, S3Config{Bucket: "food", Region: "eu-central-1"})
	url, err := s.Save(context.Background(), "recipes/a.png", []byte("x"), "image/png")

	require.NoError(t, err)
	assert.Equal(t, "https://food.s3.eu-central-1.amazonaws.com/recipes/a.png", url)
	client.AssertExpectations(t)
}

func TestS3_SaveError(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	s := NewS3WithClient(client, S3Config{Bucket: "food", Endpoint: "http://minio:9000"})
	_, err := s.Save(context.Background(), "k.png", []byte("x"), "image/png")
	assert.ErrorContains(t, err, "boom")
}

func TestLocal_Prune(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/media")
	ctx := context.Background()

	keepURL, err := l.Save(ctx, "recipes/keep.png", []byte("k"), "image/png")
	require.NoError(t, err)
	_, err = l.Save(ctx, "recipes/orphan.png", []byte("o"), "image/png")
	require.NoError(t, err)

	keepKey, ok := l.KeyFromURL(keepURL)
	require.True(t, ok)

	// свежие сироты не удаляются
	removed, err := l.Prune(ctx, "recipes", map[string]bool{keepKey: true}, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, removed)

	removed, err = l.Prune(ctx, "recipes", map[string]bool{keepKey: true}, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"recipes/orphan.png"}, removed)

	_, err = os.Stat(filepath.Join(dir, "recipes", "keep.png"))
	assert.NoError(t, err)

	_, ok = l.KeyFromURL("https://cdn.example.com/x.png")
	assert.False(t, ok)
}

func TestLocal_PruneMissingDir(t *testing.T) {
	l := NewLocal(filepath.Join(t.TempDir(), "nope"), "/media")
	removed, err := l.Prune(context.Background(), "recipes", nil, time.Now())
	assert.NoError(t, err)
	assert.Empty(t, removed)
}
