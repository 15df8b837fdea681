package importer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"guest-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestArchiverStore_UploadsSourceAndReport(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "guestlist").Return(true, nil)
	client.On("PutObject", mock.Anything, "guestlist",
		mock.MatchedBy(func(key string) bool { return strings.HasSuffix(key, "/source.csv") }),
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)
	client.On("PutObject", mock.Anything, "guestlist",
		mock.MatchedBy(func(key string) bool { return strings.HasSuffix(key, "/report.json") }),
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	a := NewArchiver(client, "guestlist", zap.NewNop())
	a.Store(context.Background(), []byte("full_name,phone\n"), &Report{Mode: ModeUpsert, Errors: []RowError{}})

	client.AssertExpectations(t)
}

func TestArchiverStore_CreatesMissingBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "guestlist").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "guestlist", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "guestlist", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	a := NewArchiver(client, "guestlist", zap.NewNop())
	a.Store(context.Background(), []byte("x"), &Report{Mode: ModeAddOnly, Errors: []RowError{}})

	client.AssertExpectations(t)
}

func TestArchiverStore_SwallowsStorageFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "guestlist").Return(false, errors.New("connection refused"))

	a := NewArchiver(client, "guestlist", zap.NewNop())
	// Must not panic or propagate: the import already committed.
	a.Store(context.Background(), []byte("x"), &Report{Mode: ModeUpsert, Errors: []RowError{}})

	client.AssertNotCalled(t, "PutObject",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestArchiverList_NewestFirst(t *testing.T) {
	ch := make(chan minio.ObjectInfo, 4)
	ch <- minio.ObjectInfo{Key: "imports/20260101T100000-aaaa1111/source.csv"}
	ch <- minio.ObjectInfo{Key: "imports/20260101T100000-aaaa1111/report.json"}
	ch <- minio.ObjectInfo{Key: "imports/20260301T090000-bbbb2222/source.csv"}
	ch <- minio.ObjectInfo{Key: "imports/20260301T090000-bbbb2222/report.json"}
	close(ch)

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "guestlist", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	a := NewArchiver(client, "guestlist", zap.NewNop())
	ids, err := a.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20260301T090000-bbbb2222",
		"20260101T100000-aaaa1111",
	}, ids)
}

func TestArchiverReport_FetchesJSON(t *testing.T) {
	body := io.NopCloser(strings.NewReader(`{"mode":"UPSERT"}`))

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "guestlist",
		"imports/20260301T090000-bbbb2222/report.json", mock.Anything).Return(body, nil)

	a := NewArchiver(client, "guestlist", zap.NewNop())
	data, err := a.Report(context.Background(), "20260301T090000-bbbb2222")
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"UPSERT"}`, string(data))
}
