package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auragophers/aurago/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeS3 struct {
	putInputs []*s3.PutObjectInput
	putErr    error

	headInput *s3.HeadObjectInput
	headOut   *s3.HeadObjectOutput
	headErr   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInputs = append(f.putInputs, params)
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.headInput = params
	return f.headOut, f.headErr
}

func testUploader(fake *fakeS3) *Uploader {
	u := NewUploader("us-east-1", "pool-id", "images.senseapp.co", testLogger())
	u.s3 = fake
	return u
}

func TestMD5Base64_ConsistentForSameData(t *testing.T) {
	data := []byte("consistent data")
	assert.Equal(t, MD5Base64(data), MD5Base64(data))
}

func TestMD5Base64_DifferentForDifferentData(t *testing.T) {
	assert.NotEqual(t, MD5Base64([]byte("data1")), MD5Base64([]byte("data2")))
}

func TestMD5Base64_KnownDigest(t *testing.T) {
	// md5("test data") = eb733a00c0c9d336e65691a37ab54293
	assert.Equal(t, "63M6AMDJ0zbmVpGjerVCkw==", MD5Base64([]byte("test data")))
}

func TestUploader_UploadFile(t *testing.T) {
	fake := &fakeS3{}
	u := testUploader(fake)

	data := []byte("test image data")
	key, checksum, err := u.UploadFile(context.Background(), data, ".jpg")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Equal(t, MD5Base64(data), checksum)

	require.Len(t, fake.putInputs, 1)
	put := fake.putInputs[0]
	assert.Equal(t, "images.senseapp.co", aws.ToString(put.Bucket))
	assert.Equal(t, key, aws.ToString(put.Key))

	body, err := io.ReadAll(put.Body)
	require.NoError(t, err)
	assert.Equal(t, data, body)
}

func TestUploader_UploadFile_FreshKeyPerUpload(t *testing.T) {
	fake := &fakeS3{}
	u := testUploader(fake)

	key1, _, err := u.UploadFile(context.Background(), []byte("a"), ".jpg")
	require.NoError(t, err)
	key2, _, err := u.UploadFile(context.Background(), []byte("a"), ".jpg")
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2)
}

func TestUploader_UploadFile_PutError(t *testing.T) {
	fake := &fakeS3{putErr: errors.New("denied")}
	u := testUploader(fake)

	_, _, err := u.UploadFile(context.Background(), []byte("x"), ".jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestUploader_StatFile(t *testing.T) {
	fake := &fakeS3{headOut: &s3.HeadObjectOutput{ContentLength: aws.Int64(9)}}
	u := testUploader(fake)

	out, err := u.StatFile(context.Background(), "test.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(9), aws.ToInt64(out.ContentLength))
	assert.Equal(t, "test.jpg", aws.ToString(fake.headInput.Key))
	assert.Equal(t, "images.senseapp.co", aws.ToString(fake.headInput.Bucket))
}
