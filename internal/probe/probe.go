// Package probe performs pre-flight checks against the inbox: an SSH
// connect-authenticate-close liveness probe, and an S3 connection check.
// No data is transferred; the probe only validates reachability and
// credentials before a scenario starts pushing artifacts.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/dmitrijs2005/inboxtester/internal/common"
	"github.com/dmitrijs2005/inboxtester/internal/logging"
	"github.com/dmitrijs2005/inboxtester/internal/retry"
	"github.com/dmitrijs2005/inboxtester/internal/sshx"
)

const connectTimeout = 15 * time.Second

// SSHTarget describes the host the probe connects to.
type SSHTarget struct {
	Host          string
	Port          int
	User          string
	KeyPath       string
	KeyPassphrase string
	HostKey       ssh.PublicKey // optional pinned host key
}

func (t SSHTarget) addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// Prober retries failed connection attempts under Policy. The default is a
// fixed 2-second interval with a 4-hour ceiling, which covers the slow
// startup of the containerized inbox in CI.
type Prober struct {
	Policy retry.Policy

	log logging.Logger

	// dial is a test seam for ssh.Dial.
	dial func(network, addr string, cfg *ssh.ClientConfig) (io.Closer, error)
}

func New(log logging.Logger) *Prober {
	return &Prober{
		Policy: retry.Policy{
			Interval:  2 * time.Second,
			Deadline:  4 * time.Hour,
			Retryable: IsConnectionError,
		},
		log: log,
		dial: func(network, addr string, cfg *ssh.ClientConfig) (io.Closer, error) {
			return ssh.Dial(network, addr, cfg)
		},
	}
}

// IsConnectionError reports whether err is one of the recognized connection
// failure kinds the probe keeps retrying. Anything else (e.g. unreadable
// key material) propagates immediately.
func IsConnectionError(err error) bool {
	return errors.Is(err, common.ErrBadHostIdentity) ||
		errors.Is(err, common.ErrAuthentication) ||
		errors.Is(err, common.ErrTransport)
}

// classify tags a connection failure with one of the three recognized
// kinds. The ssh package reports handshake failures as strings, so the
// match is textual: host key rejection and authentication failure have
// stable markers, everything else is a transport failure.
func classify(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "host key mismatch"), strings.Contains(msg, "knownhosts"):
		return fmt.Errorf("%w: %w", common.ErrBadHostIdentity, err)
	case strings.Contains(msg, "unable to authenticate"), strings.Contains(msg, "no supported methods remain"):
		return fmt.Errorf("%w: %w", common.ErrAuthentication, err)
	default:
		return fmt.Errorf("%w: %w", common.ErrTransport, err)
	}
}

// SSH opens an administrative connection, authenticates, and immediately
// closes it. Recognized connection errors are retried under the prober's
// policy; after the ceiling the last tagged error is returned with the
// failing host attached. The connection is closed on every exit path.
func (p *Prober) SSH(ctx context.Context, t SSHTarget) error {
	signer, err := sshx.LoadSigner(t.KeyPath, t.KeyPassphrase)
	if err != nil {
		return err
	}

	cfg := &ssh.ClientConfig{
		User:            t.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: sshx.HostKeyCallback(t.HostKey),
		Timeout:         connectTimeout,
	}

	err = p.Policy.Do(ctx, func() error {
		client, err := p.dial("tcp", t.addr(), cfg)
		if err != nil {
			tagged := classify(err)
			p.log.Error(ctx, "ssh probe attempt failed", "host", t.addr(), "error", tagged)
			return tagged
		}
		defer client.Close()
		p.log.Info(ctx, "ssh connected "+common.PassMarker, "host", t.addr(), "user", t.User)
		return nil
	})
	if err != nil {
		return fmt.Errorf("probe %s: %w", t.addr(), err)
	}
	return nil
}
