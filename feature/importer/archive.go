package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"guest-manager/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const archivePrefix = "imports/"

// Archiver stores the audit trail of committed import runs: the source file
// and the resulting report, under imports/<timestamp>-<run id>/.
type Archiver struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewArchiver creates an archiver writing to the given bucket.
func NewArchiver(client storage.Client, bucket string, log *zap.Logger) *Archiver {
	return &Archiver{client: client, bucket: bucket, logger: log}
}

// Store uploads the run's source CSV and report JSON. Failures are logged and
// swallowed: the import already committed and the archive must not undo that
// outcome.
func (a *Archiver) Store(ctx context.Context, source []byte, report *Report) {
	runID := fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102T150405"), uuid.NewString()[:8])

	if err := a.ensureBucket(ctx); err != nil {
		a.logger.Warn("import archive skipped", zap.Error(err))
		return
	}

	prefix := archivePrefix + runID + "/"
	if err := a.put(ctx, prefix+"source.csv", source, "text/csv"); err != nil {
		a.logger.Warn("failed to archive import source", zap.String("run_id", runID), zap.Error(err))
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		a.logger.Warn("failed to encode import report", zap.String("run_id", runID), zap.Error(err))
		return
	}
	if err := a.put(ctx, prefix+"report.json", data, "application/json"); err != nil {
		a.logger.Warn("failed to archive import report", zap.String("run_id", runID), zap.Error(err))
		return
	}

	a.logger.Info("import archived", zap.String("run_id", runID))
}

// List returns the archived run ids, newest first.
func (a *Archiver) List(ctx context.Context) ([]string, error) {
	runs := make(map[string]struct{})
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    archivePrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		rest := strings.TrimPrefix(obj.Key, archivePrefix)
		if id, _, ok := strings.Cut(rest, "/"); ok && id != "" {
			runs[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(runs))
	for id := range runs {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}

// Report fetches the archived report JSON of one run.
func (a *Archiver) Report(ctx context.Context, runID string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, archivePrefix+runID+"/report.json", minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

func (a *Archiver) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("bucket check failed: %w", err)
	}
	if exists {
		return nil
	}
	return a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
}

func (a *Archiver) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}
