package probe

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/dmitrijs2005/inboxtester/internal/common"
	"github.com/dmitrijs2005/inboxtester/internal/logging"
	"github.com/dmitrijs2005/inboxtester/internal/retry"
)

func discardLogger() logging.Logger {
	return logging.New(io.Discard, slog.LevelError)
}

func writeTestKey(t *testing.T) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "user.key")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))
	return path
}

// shortPolicy keeps probe tests fast: same fixed-interval shape, tiny ceiling.
func shortPolicy() retry.Policy {
	return retry.Policy{
		Interval:  20 * time.Millisecond,
		Deadline:  200 * time.Millisecond,
		Retryable: IsConnectionError,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{
			name: "host key mismatch",
			in:   errors.New("ssh: handshake failed: ssh: host key mismatch"),
			want: common.ErrBadHostIdentity,
		},
		{
			name: "authentication",
			in:   errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none publickey]"),
			want: common.ErrAuthentication,
		},
		{
			name: "connection refused",
			in:   errors.New("dial tcp 127.0.0.1:2222: connect: connection refused"),
			want: common.ErrTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.in)
			assert.True(t, errors.Is(got, tt.want), "got %v", got)
			assert.True(t, IsConnectionError(got))
		})
	}
}

func TestSSH_Success(t *testing.T) {
	p := New(discardLogger())
	p.Policy = shortPolicy()

	dials := 0
	p.dial = func(network, addr string, cfg *ssh.ClientConfig) (io.Closer, error) {
		dials++
		assert.Equal(t, "tcp", network)
		assert.Equal(t, "localhost:2222", addr)
		assert.Equal(t, "test", cfg.User)
		return io.NopCloser(nil), nil
	}

	err := p.SSH(context.Background(), SSHTarget{
		Host: "localhost", Port: 2222, User: "test", KeyPath: writeTestKey(t),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, dials)
}

func TestSSH_UnreachableHostRetriesUntilCeiling(t *testing.T) {
	p := New(discardLogger())
	p.Policy = shortPolicy()

	dials := 0
	p.dial = func(network, addr string, cfg *ssh.ClientConfig) (io.Closer, error) {
		dials++
		return nil, errors.New("dial tcp: connect: connection refused")
	}

	start := time.Now()
	err := p.SSH(context.Background(), SSHTarget{
		Host: "unreachable", Port: 2222, User: "test", KeyPath: writeTestKey(t),
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable:2222")
	assert.GreaterOrEqual(t, dials, 3, "expected paced retries before the ceiling")
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
}

func TestSSH_AuthFailureIsTaggedAndRetried(t *testing.T) {
	p := New(discardLogger())
	p.Policy = shortPolicy()

	dials := 0
	p.dial = func(network, addr string, cfg *ssh.ClientConfig) (io.Closer, error) {
		dials++
		return nil, errors.New("ssh: handshake failed: ssh: unable to authenticate")
	}

	err := p.SSH(context.Background(), SSHTarget{
		Host: "localhost", Port: 2222, User: "test", KeyPath: writeTestKey(t),
	})

	require.True(t, errors.Is(err, common.ErrAuthentication))
	assert.Greater(t, dials, 1)
}

func TestSSH_BadKeyMaterialFailsFast(t *testing.T) {
	p := New(discardLogger())
	p.Policy = shortPolicy()

	dials := 0
	p.dial = func(network, addr string, cfg *ssh.ClientConfig) (io.Closer, error) {
		dials++
		return io.NopCloser(nil), nil
	}

	err := p.SSH(context.Background(), SSHTarget{
		Host: "localhost", Port: 2222, User: "test",
		KeyPath: filepath.Join(t.TempDir(), "absent.key"),
	})

	require.True(t, errors.Is(err, common.ErrKeyLoad))
	assert.Zero(t, dials, "no connection attempt without key material")
}
