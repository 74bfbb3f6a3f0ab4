package transfer

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/dmitrijs2005/inboxtester/internal/common"
	"github.com/dmitrijs2005/inboxtester/internal/logging"
	"github.com/dmitrijs2005/inboxtester/internal/sshx"
)

const (
	sftpConnectTimeout = 15 * time.Second
	keepAliveInterval  = 60 * time.Second
)

// SFTPTarget describes the SFTP inbox host.
type SFTPTarget struct {
	Host          string
	Port          int
	User          string
	KeyPath       string
	KeyPassphrase string
	HostKey       ssh.PublicKey // optional pinned host key
}

func (t SFTPTarget) addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// sftpFiler is the slice of *sftp.Client the backend needs; tests substitute
// a fake through the connect seam.
type sftpFiler interface {
	Create(name string) (io.WriteCloser, error)
	Remove(name string) error
	Close() error
}

type realFiler struct {
	*sftp.Client
}

func (r realFiler) Create(name string) (io.WriteCloser, error) {
	return r.Client.Create(name)
}

// sftpSession owns a connected transport. Close tears down the keep-alive
// loop, the SFTP subsystem, and the SSH connection, in that order; it is
// safe on every exit path.
type sftpSession struct {
	conn  io.Closer
	filer sftpFiler
	done  chan struct{}
}

func (s *sftpSession) Close() {
	if s.done != nil {
		close(s.done)
	}
	_ = s.filer.Close()
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

// SFTPBackend delivers artifacts over a per-call SSH transport with
// private-key auth. Uploads are a single file put; there are no resumable
// or multipart semantics.
type SFTPBackend struct {
	target SFTPTarget
	log    logging.Logger

	// connect is a test seam; the default dials the real host.
	connect func(ctx context.Context) (*sftpSession, error)
}

func NewSFTP(target SFTPTarget, log logging.Logger) *SFTPBackend {
	b := &SFTPBackend{target: target, log: log}
	b.connect = b.dial
	return b
}

func (b *SFTPBackend) dial(ctx context.Context) (*sftpSession, error) {
	signer, err := sshx.LoadSigner(b.target.KeyPath, b.target.KeyPassphrase)
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            b.target.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: sshx.HostKeyCallback(b.target.HostKey),
		Timeout:         sftpConnectTimeout,
	}

	conn, err := ssh.Dial("tcp", b.target.addr(), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", common.ErrTransfer, b.target.addr(), err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: sftp session on %s: %w", common.ErrTransfer, b.target.addr(), err)
	}

	done := make(chan struct{})
	go keepAlive(conn, done)

	b.log.Debug(ctx, "sftp connected", "host", b.target.addr(), "user", b.target.User)
	return &sftpSession{conn: conn, filer: realFiler{client}, done: done}, nil
}

// keepAlive pings the server so the inbox's inactivity timeout does not cut
// the transport under a slow upload.
func keepAlive(conn *ssh.Client, done <-chan struct{}) {
	t := time.NewTicker(keepAliveInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			_, _, _ = conn.SendRequest("keepalive@openssh.com", true, nil)
		case <-done:
			return
		}
	}
}

func (b *SFTPBackend) Upload(ctx context.Context, artifactPath string) error {
	if err := checkLocal(artifactPath); err != nil {
		return err
	}

	session, err := b.connect(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	src, err := os.Open(artifactPath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", common.ErrTransfer, artifactPath, err)
	}
	defer src.Close()

	name := remoteName(artifactPath)
	dst, err := session.filer.Create(name)
	if err != nil {
		return fmt.Errorf("%w: create remote %s: %w", common.ErrTransfer, name, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("%w: put %s: %w", common.ErrTransfer, name, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("%w: close remote %s: %w", common.ErrTransfer, name, err)
	}

	b.log.Info(ctx, "file uploaded "+common.PassMarker, "artifact", name, "host", b.target.addr())
	return nil
}

func (b *SFTPBackend) Remove(ctx context.Context, artifactPath string) error {
	session, err := b.connect(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	name := remoteName(artifactPath)
	if err := session.filer.Remove(name); err != nil {
		return fmt.Errorf("%w: remove remote %s: %w", common.ErrCleanup, name, err)
	}

	b.log.Info(ctx, "clean up: file removed", "artifact", name, "host", b.target.addr())
	return nil
}
