// Package transfer delivers encrypted artifacts to an ingestion inbox and
// removes them again as cleanup. Two interchangeable backends implement the
// same contract: an SFTP-accessible host and an S3-compatible object store.
package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/inboxtester/internal/common"
	"github.com/dmitrijs2005/inboxtester/internal/envelope"
	"github.com/dmitrijs2005/inboxtester/internal/logging"
)

// Backend is the delivery capability shared by the SFTP and S3 variants.
// Both calls fail fast: network errors are not retried here, only by the
// pre-flight connection probe.
type Backend interface {
	// Upload delivers the artifact under its base name. The local path is
	// checked before any remote call is made.
	Upload(ctx context.Context, artifactPath string) error

	// Remove deletes the artifact's remote counterpart. Prior existence is
	// not verified, so removing an absent artifact surfaces as an error.
	Remove(ctx context.Context, artifactPath string) error
}

// Kind selects a backend implementation.
type Kind string

const (
	KindSFTP Kind = "sftp"
	KindS3   Kind = "s3"
)

// Target describes the remote inbox for one operation. Exactly one of the
// per-kind sections is consulted, selected by Kind.
type Target struct {
	Kind Kind
	SFTP SFTPTarget
	S3   S3Target
}

// New builds the backend selected by t.Kind.
func New(t Target, log logging.Logger) (Backend, error) {
	switch t.Kind {
	case KindSFTP:
		return NewSFTP(t.SFTP, log), nil
	case KindS3:
		return NewS3(t.S3, log), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend kind %q", common.ErrTransfer, t.Kind)
	}
}

// remoteName maps a local path to the remote artifact name: the base name
// with its extension replaced by the artifact suffix. Passing either the
// plaintext or the encrypted path yields the same remote name.
func remoteName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + envelope.Suffix
}

// checkLocal verifies the artifact exists locally before any remote call.
func checkLocal(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", common.ErrLocalFileMissing, path)
	}
	return nil
}
