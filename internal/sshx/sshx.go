// Package sshx contains small SSH helpers shared by the connection probe
// and the SFTP backend.
package sshx

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"

	"github.com/dmitrijs2005/inboxtester/internal/common"
)

// LoadSigner reads and parses an SSH private key file. The passphrase is
// applied only when the key turns out to be encrypted. Failures are
// reported as common.ErrKeyLoad.
func LoadSigner(path, passphrase string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read ssh key %s: %w", common.ErrKeyLoad, path, err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err == nil {
		return signer, nil
	}

	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) && passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(data, []byte(passphrase))
		if err == nil {
			return signer, nil
		}
	}

	return nil, fmt.Errorf("%w: parse ssh key %s: %w", common.ErrKeyLoad, path, err)
}

// HostKeyCallback pins the given host key when provided; otherwise any host
// key is accepted, matching the throwaway test deployments this harness
// runs against.
func HostKeyCallback(key ssh.PublicKey) ssh.HostKeyCallback {
	if key == nil {
		return ssh.InsecureIgnoreHostKey()
	}
	return ssh.FixedHostKey(key)
}
