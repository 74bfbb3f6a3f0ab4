package envelope

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	c4ghkeys "github.com/neicnordic/crypt4gh/keys"
	"github.com/neicnordic/crypt4gh/streaming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/dmitrijs2005/inboxtester/internal/common"
	"github.com/dmitrijs2005/inboxtester/internal/keys"
	"github.com/dmitrijs2005/inboxtester/internal/logging"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "txt extension replaced", in: "plaintext.txt", want: "plaintext.c4ga"},
		{name: "path preserved", in: "/data/in/sample.bam", want: "/data/in/sample.c4ga"},
		{name: "no extension", in: "plaintext", want: "plaintext.c4ga"},
		{name: "double extension strips last only", in: "dump.tar.gz", want: "dump.tar.c4ga"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.in))
		})
	}
}

func testMaterial(t *testing.T) (*keys.Material, [chacha20poly1305.KeySize]byte) {
	t.Helper()
	_, senderPriv, err := c4ghkeys.GenerateKeyPair()
	require.NoError(t, err)
	recipientPub, recipientPriv, err := c4ghkeys.GenerateKeyPair()
	require.NoError(t, err)
	return &keys.Material{Sender: senderPriv, Recipient: recipientPub}, recipientPriv
}

func discardLogger() logging.Logger {
	return logging.New(io.Discard, slog.LevelError)
}

func TestEncryptFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "plaintext.txt")
	content := []byte("the quick brown fox\n")
	require.NoError(t, os.WriteFile(source, content, 0o600))

	material, recipientPriv := testMaterial(t)
	enc := NewEncryptor(material, discardLogger())

	out, err := enc.EncryptFile(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plaintext.c4ga"), out)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	// the recipient must be able to open the envelope
	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	r, err := streaming.NewCrypt4GHReader(f, recipientPriv, nil)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestEncryptFile_OverwritesExistingArtifact(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "plaintext.txt")
	require.NoError(t, os.WriteFile(source, []byte("v1"), 0o600))

	material, _ := testMaterial(t)
	enc := NewEncryptor(material, discardLogger())

	first, err := enc.EncryptFile(context.Background(), source)
	require.NoError(t, err)

	second, err := enc.EncryptFile(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncryptFile_MissingSource(t *testing.T) {
	material, _ := testMaterial(t)
	enc := NewEncryptor(material, discardLogger())

	_, err := enc.EncryptFile(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrEncryption))
}
