// Package keys resolves Crypt4GH key material for one delivery: the
// sender's private key (optionally passphrase-protected) and the
// recipient's public key. Material is loaded fresh per operation and never
// cached.
package keys

import (
	"fmt"
	"os"

	c4ghkeys "github.com/neicnordic/crypt4gh/keys"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/dmitrijs2005/inboxtester/internal/common"
)

// Material is a resolved sender/recipient key pair, in the representation
// the envelope layer consumes.
type Material struct {
	Sender    [chacha20poly1305.KeySize]byte
	Recipient [chacha20poly1305.KeySize]byte
}

// Resolve loads the sender private key and the recipient public key from
// the given files. The passphrase is used only when the private key is
// encrypted. Any parse failure, wrong passphrase, or missing file is
// reported as common.ErrKeyLoad.
func Resolve(privateKeyPath, publicKeyPath string, passphrase []byte) (*Material, error) {
	sender, err := readPrivate(privateKeyPath, passphrase)
	if err != nil {
		return nil, err
	}

	recipient, err := readPublic(publicKeyPath)
	if err != nil {
		return nil, err
	}

	return &Material{Sender: sender, Recipient: recipient}, nil
}

func readPrivate(path string, passphrase []byte) ([chacha20poly1305.KeySize]byte, error) {
	var zero [chacha20poly1305.KeySize]byte

	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w: open private key %s: %w", common.ErrKeyLoad, path, err)
	}
	defer f.Close()

	key, err := c4ghkeys.ReadPrivateKey(f, passphrase)
	if err != nil {
		return zero, fmt.Errorf("%w: parse private key %s: %w", common.ErrKeyLoad, path, err)
	}
	return key, nil
}

func readPublic(path string) ([chacha20poly1305.KeySize]byte, error) {
	var zero [chacha20poly1305.KeySize]byte

	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w: open public key %s: %w", common.ErrKeyLoad, path, err)
	}
	defer f.Close()

	key, err := c4ghkeys.ReadPublicKey(f)
	if err != nil {
		return zero, fmt.Errorf("%w: parse public key %s: %w", common.ErrKeyLoad, path, err)
	}
	return key, nil
}
