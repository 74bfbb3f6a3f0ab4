package probe

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/inboxtester/internal/common"
	"github.com/dmitrijs2005/inboxtester/internal/transfer"
)

// s3HeadBucketAPI is a test seam around the one call the check needs.
type s3HeadBucketAPI interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

var newS3Client = func(ctx context.Context, t transfer.S3Target) (s3HeadBucketAPI, error) {
	return transfer.NewS3Client(ctx, t)
}

// S3 verifies that the object-store inbox is reachable and the credentials
// are accepted, by building a client and heading the target bucket. Unlike
// the SSH probe this check is not retried; callers wanting pacing wrap it
// in a retry.Policy themselves.
func (p *Prober) S3(ctx context.Context, t transfer.S3Target) error {
	client, err := newS3Client(ctx, t)
	if err != nil {
		return err
	}

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(t.Bucket)}); err != nil {
		tagged := fmt.Errorf("%w: head bucket %s: %w", common.ErrTransport, t.Bucket, err)
		p.log.Error(ctx, "s3 probe failed", "endpoint", t.Endpoint, "error", tagged)
		return tagged
	}

	p.log.Info(ctx, "connected to s3 "+common.PassMarker, "endpoint", t.Endpoint, "bucket", t.Bucket)
	return nil
}
