package recorder

import (
	"context"
	"encoding/json"
	"fmt"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// Blob records runs as JSON objects in a gocloud.dev bucket, supporting
// S3, GCS, Azure Blob Storage, and S3-compatible stores
type Blob struct {
	bucket *blob.Bucket
	prefix string
}

var _ Recorder = (*Blob)(nil)

// NewBlob opens the bucket at the given URL (e.g. s3://runs-archive)
func NewBlob(ctx context.Context, bucketURL, prefix string) (*Blob, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return &Blob{bucket: bucket, prefix: prefix}, nil
}

func (b *Blob) Record(ctx context.Context, rc *api.RunContext) error {
	data, err := json.Marshal(rc)
	if err != nil {
		return err
	}
	return b.bucket.WriteAll(ctx, b.keyFor(rc.RunID), data, nil)
}

func (b *Blob) Get(
	ctx context.Context, runID string,
) (*api.RunContext, error) {
	data, err := b.bucket.ReadAll(ctx, b.keyFor(runID))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %s", api.ErrRunNotFound, runID)
		}
		return nil, err
	}

	var rc api.RunContext
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, err
	}
	return &rc, nil
}

// Close releases the underlying bucket
func (b *Blob) Close() error {
	return b.bucket.Close()
}

func (b *Blob) keyFor(runID string) string {
	return b.prefix + "runs/" + runID + ".json"
}
