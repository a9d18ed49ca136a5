package s3

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/movielens/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.HeadObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.GetObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestStore_Open(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "datasets", "mirror")

	t.Run("NotFound", func(t *testing.T) {
		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
			return *input.Bucket == "datasets" && *input.Key == "mirror/missing.zip"
		})).Return(nil, &types.NotFound{}).Once()

		_, err := store.Open(context.Background(), "missing.zip")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(input *s3.HeadObjectInput) bool {
			return *input.Bucket == "datasets" && *input.Key == "mirror/ml-1m.zip"
		})).Return(&s3.HeadObjectOutput{
			ContentLength: aws.Int64(100),
		}, nil).Once()

		blob, err := store.Open(context.Background(), "ml-1m.zip")
		require.NoError(t, err)
		assert.Equal(t, int64(100), blob.Size())
		assert.NoError(t, blob.Close())
	})

	mockClient.AssertExpectations(t)
}

func TestBlob_ReadAt(t *testing.T) {
	mockClient := new(MockS3Client)
	blob := &s3Blob{
		ctx:    context.Background(),
		client: mockClient,
		bucket: "b",
		key:    "k",
		size:   10,
	}

	t.Run("Full", func(t *testing.T) {
		mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
			return *input.Bucket == "b" && *input.Key == "k" && *input.Range == "bytes=0-4"
		})).Return(&s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("1::F:")),
		}, nil).Once()

		buf := make([]byte, 5)
		n, err := blob.ReadAt(buf, 0)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "1::F:", string(buf))
	})

	t.Run("Tail", func(t *testing.T) {
		mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
			return *input.Range == "bytes=8-9"
		})).Return(&s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("10")),
		}, nil).Once()

		buf := make([]byte, 5)
		n, err := blob.ReadAt(buf, 8)
		assert.Equal(t, 2, n)
		assert.Equal(t, io.EOF, err)
		assert.Equal(t, "10", string(buf[:n]))
	})

	t.Run("PastEnd", func(t *testing.T) {
		n, err := blob.ReadAt(make([]byte, 1), 10)
		assert.Equal(t, 0, n)
		assert.Equal(t, io.EOF, err)
	})

	mockClient.AssertExpectations(t)
}

func TestStore_Download(t *testing.T) {
	mockClient := new(MockS3Client)
	store := NewStore(mockClient, "datasets", "mirror")

	payload := "PK-archive"
	mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
		return *input.Bucket == "datasets" && *input.Key == "mirror/ml-1m.zip"
	})).Return(&s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(payload)),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentRange:  aws.String("bytes 0-9/10"),
	}, nil).Once()

	f, err := os.Create(filepath.Join(t.TempDir(), "ml-1m.zip"))
	require.NoError(t, err)
	defer f.Close()

	n, err := store.Download(context.Background(), "ml-1m.zip", f)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)

	got, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
}
