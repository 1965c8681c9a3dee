package sink

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/deragabu/cursorstream/pkg/cursor"
)

// S3API is the slice of the S3 client this sink needs. *s3.Client
// satisfies it; tests substitute a fake.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads each visible snapshot as an object under a key prefix.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	snk := sink.NewS3(s3.NewFromConfig(cfg), "my-bucket", "cursors/")
type S3 struct {
	client S3API
	bucket string
	prefix string
}

// NewS3 returns a sink uploading to the given bucket under prefix.
func NewS3(client S3API, bucket, prefix string) *S3 {
	return &S3{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Store uploads the snapshot's image bytes with its cursor metadata
// attached as object metadata.
func (s *S3) Store(ctx context.Context, snap *cursor.Snapshot) error {
	if snap.State != cursor.StateVisible || len(snap.Image) == 0 {
		return ErrNotVisible
	}

	key := s.prefix + frameName(snap)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(snap.Image),
		ContentType: aws.String(imageContentType(snap.Image)),
		Metadata: map[string]string{
			"cursor-id": snap.CursorID,
			"width":     strconv.FormatUint(uint64(snap.Width), 10),
			"height":    strconv.FormatUint(uint64(snap.Height), 10),
			"hotspot-x": strconv.FormatInt(int64(snap.HotspotX), 10),
			"hotspot-y": strconv.FormatInt(int64(snap.HotspotY), 10),
		},
	})
	if err != nil {
		return fmt.Errorf("sink: s3 upload %s: %w", key, err)
	}
	return nil
}
