package transfer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/inboxtester/internal/common"
)

// fakeFiler records remote operations in memory.
type fakeFiler struct {
	files     map[string]*bytes.Buffer
	removeErr error
	createErr error
	closed    bool
}

func newFakeFiler() *fakeFiler {
	return &fakeFiler{files: map[string]*bytes.Buffer{}}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (f *fakeFiler) Create(name string) (io.WriteCloser, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	buf := &bytes.Buffer{}
	f.files[name] = buf
	return nopWriteCloser{buf}, nil
}

func (f *fakeFiler) Remove(name string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	if _, ok := f.files[name]; !ok {
		return errors.New("file does not exist")
	}
	delete(f.files, name)
	return nil
}

func (f *fakeFiler) Close() error {
	f.closed = true
	return nil
}

func newTestSFTP(t *testing.T, filer *fakeFiler) (*SFTPBackend, *int) {
	t.Helper()
	b := NewSFTP(SFTPTarget{Host: "localhost", Port: 2222, User: "test"}, discardLogger())
	connects := 0
	b.connect = func(ctx context.Context) (*sftpSession, error) {
		connects++
		return &sftpSession{filer: filer}, nil
	}
	return b, &connects
}

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plaintext.c4ga")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSFTPUpload(t *testing.T) {
	filer := newFakeFiler()
	b, connects := newTestSFTP(t, filer)
	artifact := writeArtifact(t, "ciphertext")

	require.NoError(t, b.Upload(context.Background(), artifact))

	assert.Equal(t, 1, *connects)
	require.Contains(t, filer.files, "plaintext.c4ga")
	assert.Equal(t, "ciphertext", filer.files["plaintext.c4ga"].String())
	assert.True(t, filer.closed)
}

func TestSFTPUpload_MissingLocalFileSkipsRemote(t *testing.T) {
	filer := newFakeFiler()
	b, connects := newTestSFTP(t, filer)

	err := b.Upload(context.Background(), filepath.Join(t.TempDir(), "absent.c4ga"))

	require.True(t, errors.Is(err, common.ErrLocalFileMissing))
	assert.Zero(t, *connects, "no remote call must be made for a missing local file")
}

func TestSFTPUpload_RemoteCreateFails(t *testing.T) {
	filer := newFakeFiler()
	filer.createErr = errors.New("permission denied")
	b, _ := newTestSFTP(t, filer)
	artifact := writeArtifact(t, "ciphertext")

	err := b.Upload(context.Background(), artifact)

	require.True(t, errors.Is(err, common.ErrTransfer))
	assert.True(t, filer.closed, "transport must be closed on failure")
}

func TestSFTPRemove(t *testing.T) {
	filer := newFakeFiler()
	b, _ := newTestSFTP(t, filer)
	artifact := writeArtifact(t, "ciphertext")

	require.NoError(t, b.Upload(context.Background(), artifact))
	require.NoError(t, b.Remove(context.Background(), artifact))

	// remove is not idempotent: the second call must fail
	err := b.Remove(context.Background(), artifact)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCleanup))
}
