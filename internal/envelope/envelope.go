// Package envelope wraps plaintext files into Crypt4GH artifacts addressed
// to a single recipient. The envelope construction itself (session key,
// chunked payload encryption) is delegated to the crypt4gh library; this
// package only owns artifact naming and file plumbing.
package envelope

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/neicnordic/crypt4gh/streaming"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/dmitrijs2005/inboxtester/internal/common"
	"github.com/dmitrijs2005/inboxtester/internal/keys"
	"github.com/dmitrijs2005/inboxtester/internal/logging"
)

// Suffix is the fixed artifact suffix. It is used identically for the local
// output file, the SFTP remote name, and the S3 object key.
const Suffix = ".c4ga"

// OutputPath derives the artifact path from the source path: the source's
// extension is replaced with Suffix. The mapping depends only on the name,
// so re-encrypting the same source overwrites the same target.
func OutputPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + Suffix
}

// Encryptor produces Crypt4GH artifacts for one sender/recipient pair.
type Encryptor struct {
	material *keys.Material
	log      logging.Logger
}

func NewEncryptor(material *keys.Material, log logging.Logger) *Encryptor {
	return &Encryptor{material: material, log: log}
}

// EncryptFile encrypts sourcePath into OutputPath(sourcePath) and returns
// the artifact path. An existing artifact is overwritten without prompt.
// On failure the destination may be left partially written; the harness
// re-runs full scenarios, so no cleanup is attempted. All failures are
// reported as common.ErrEncryption.
func (e *Encryptor) EncryptFile(ctx context.Context, sourcePath string) (string, error) {
	in, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("%w: open source %s: %w", common.ErrEncryption, sourcePath, err)
	}
	defer in.Close()

	outPath := OutputPath(sourcePath)
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %w", common.ErrEncryption, outPath, err)
	}
	defer out.Close()

	w, err := streaming.NewCrypt4GHWriter(out, e.material.Sender,
		[][chacha20poly1305.KeySize]byte{e.material.Recipient}, nil)
	if err != nil {
		return "", fmt.Errorf("%w: envelope header for %s: %w", common.ErrEncryption, outPath, err)
	}

	if _, err := io.Copy(w, in); err != nil {
		return "", fmt.Errorf("%w: encrypt %s: %w", common.ErrEncryption, sourcePath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: finalize %s: %w", common.ErrEncryption, outPath, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", common.ErrEncryption, outPath, err)
	}

	e.log.Info(ctx, "encrypted artifact written", "source", sourcePath, "artifact", outPath)
	return outPath, nil
}
