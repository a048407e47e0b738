package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cowork/infras/otel/mocks"
)

type fakeStore struct {
	puts    []*s3.PutObjectInput
	body    []byte
	deletes []string
	err     error
}

func (f *fakeStore) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	f.body, _ = io.ReadAll(in.Body)

	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeStore) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))

	return &s3.DeleteObjectOutput{}, f.err
}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func pngUpload(content string) (multipart.File, *multipart.FileHeader) {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", "image/png")

	return memFile{bytes.NewReader([]byte(content))}, &multipart.FileHeader{Filename: "a.png", Header: header, Size: int64(len(content))}
}

func TestUploadFile(t *testing.T) {
	store := &fakeStore{}
	svc := newStore(store, "cowork", "https://cdn.example.com/", mocks.NewOtel())

	file, header := pngUpload("png-bytes")
	url, err := svc.UploadFile(context.Background(), "room", file, header, "7f3a.png")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/room/7f3a.png", url)
	require.Len(t, store.puts, 1)
	assert.Equal(t, "cowork", aws.ToString(store.puts[0].Bucket))
	assert.Equal(t, "room/7f3a.png", aws.ToString(store.puts[0].Key))
	assert.Equal(t, "image/png", aws.ToString(store.puts[0].ContentType))
	assert.Equal(t, int64(9), aws.ToInt64(store.puts[0].ContentLength))
	assert.Equal(t, "png-bytes", string(store.body))

	assert.Equal(t, "7f3a.png", svc.ObjectNameFromURL("room", url))
}

func TestUploadFile_Errors(t *testing.T) {
	otl := mocks.NewOtel()
	svc := newStore(&fakeStore{err: errors.New("access denied")}, "cowork", "https://cdn.example.com", otl)

	file, header := pngUpload("png-bytes")
	_, err := svc.UploadFile(context.Background(), "room", file, header, "7f3a.png")
	require.ErrorContains(t, err, "room/7f3a.png")
	assert.Len(t, otl.Errors, 1)

	_, err = svc.UploadFile(context.Background(), "room", nil, nil, "empty.png")
	assert.Error(t, err)
}

func TestDeleteFile(t *testing.T) {
	store := &fakeStore{}
	svc := newStore(store, "cowork", "https://cdn.example.com", mocks.NewOtel())

	require.NoError(t, svc.DeleteFile(context.Background(), "room", "7f3a.png"))
	assert.Equal(t, []string{"room/7f3a.png"}, store.deletes)
}

func TestObjectNameFromURL(t *testing.T) {
	svc := newStore(&fakeStore{}, "cowork", "https://cdn.example.com", mocks.NewOtel())

	tests := map[string]string{
		"https://cdn.example.com/room/7f3a.png":       "7f3a.png",
		"https://cdn.example.com/room/":               "",
		"https://cdn.example.com/room/nested/x.png":   "",
		"https://cdn.example.com/gallery/7f3a.png":    "",
		"https://elsewhere.example.com/room/7f3a.png": "",
		"": "",
	}

	for url, want := range tests {
		assert.Equal(t, want, svc.ObjectNameFromURL("room", url), url)
	}
}
