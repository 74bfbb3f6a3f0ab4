package transfer

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/inboxtester/internal/common"
	"github.com/dmitrijs2005/inboxtester/internal/logging"
)

// S3Target describes the S3-compatible inbox. RootCA points at a PEM bundle
// used as the trust root, needed because the test deployments run with
// self-signed certificates.
type S3Target struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	UseTLS    bool
	RootCA    string
}

// baseEndpoint normalizes the endpoint: a bare host gets a scheme derived
// from the TLS flag; a full URL is taken as-is.
func (t S3Target) baseEndpoint() string {
	if strings.Contains(t.Endpoint, "://") {
		return t.Endpoint
	}
	scheme := "https"
	if !t.UseTLS {
		scheme = "http"
	}
	return scheme + "://" + t.Endpoint
}

// s3API is the slice of the S3 client the backend needs; tests substitute
// a fake through the newAPI seam.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// NewS3Client builds an S3 client for the target: static credentials,
// custom endpoint with path-style addressing (MinIO and friends), and an
// optional private trust root. Signing uses the SDK's SigV4 default.
func NewS3Client(ctx context.Context, t S3Target) (*s3.Client, error) {
	httpClient, err := newHTTPClient(t)
	if err != nil {
		return nil, err
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(t.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			t.AccessKey, t.SecretKey, "")),
		awsconfig.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: aws config: %w", common.ErrTransport, err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(t.baseEndpoint())
		o.UsePathStyle = true
	})
	return client, nil
}

func newHTTPClient(t S3Target) (*awshttp.BuildableClient, error) {
	if t.RootCA == "" {
		return awshttp.NewBuildableClient(), nil
	}

	pem, err := os.ReadFile(t.RootCA)
	if err != nil {
		return nil, fmt.Errorf("%w: read root CA %s: %w", common.ErrTransport, t.RootCA, err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("%w: no certificates in %s", common.ErrTransport, t.RootCA)
	}

	return awshttp.NewBuildableClient().WithTransportOptions(func(tr *http.Transport) {
		tr.TLSClientConfig = &tls.Config{RootCAs: pool}
	}), nil
}

// S3Backend delivers artifacts with a single-shot object put. Multipart
// negotiation is deliberately not used, even for large artifacts; the
// harness verifies the plain upload path only.
type S3Backend struct {
	target S3Target
	log    logging.Logger

	// newAPI is a test seam; the default builds the real client.
	newAPI func(ctx context.Context) (s3API, error)
}

func NewS3(target S3Target, log logging.Logger) *S3Backend {
	b := &S3Backend{target: target, log: log}
	b.newAPI = func(ctx context.Context) (s3API, error) {
		return NewS3Client(ctx, target)
	}
	return b
}

func (b *S3Backend) Upload(ctx context.Context, artifactPath string) error {
	if err := checkLocal(artifactPath); err != nil {
		return err
	}

	api, err := b.newAPI(ctx)
	if err != nil {
		return err
	}
	b.log.Debug(ctx, "connected to s3", "endpoint", b.target.baseEndpoint())

	f, err := os.Open(artifactPath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", common.ErrTransfer, artifactPath, err)
	}
	defer f.Close()

	name := remoteName(artifactPath)
	_, err = api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.target.Bucket),
		Key:    aws.String(name),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("%w: put %s to bucket %s: %w", common.ErrTransfer, name, b.target.Bucket, err)
	}

	b.log.Info(ctx, "file uploaded "+common.PassMarker, "artifact", name, "bucket", b.target.Bucket)
	return nil
}

// Remove deletes the artifact's object. DeleteObject alone succeeds for
// absent keys, so the key is resolved with a HeadObject first; a missing
// object is a cleanup error, keeping remove non-idempotent like the SFTP
// variant.
func (b *S3Backend) Remove(ctx context.Context, artifactPath string) error {
	api, err := b.newAPI(ctx)
	if err != nil {
		return err
	}
	b.log.Debug(ctx, "connected to s3", "endpoint", b.target.baseEndpoint())

	name := remoteName(artifactPath)
	bucket := aws.String(b.target.Bucket)

	if _, err := api.HeadObject(ctx, &s3.HeadObjectInput{Bucket: bucket, Key: aws.String(name)}); err != nil {
		return fmt.Errorf("%w: object %s not found in bucket %s: %w", common.ErrCleanup, name, b.target.Bucket, err)
	}
	if _, err := api.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: bucket, Key: aws.String(name)}); err != nil {
		return fmt.Errorf("%w: delete %s from bucket %s: %w", common.ErrCleanup, name, b.target.Bucket, err)
	}

	b.log.Info(ctx, "clean up: object removed", "artifact", name, "bucket", b.target.Bucket)
	return nil
}
