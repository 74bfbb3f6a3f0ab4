// Package common defines shared constants and sentinel errors used across
// the harness. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Key material errors.
	ErrKeyLoad = errors.New("key load error")

	// Envelope encryption errors.
	ErrEncryption = errors.New("encryption error")

	// Probe errors. All three are retried by the connection probe up to
	// its deadline; anything else propagates immediately.
	ErrBadHostIdentity = errors.New("bad host identity")
	ErrAuthentication  = errors.New("authentication failure")
	ErrTransport       = errors.New("transport failure")

	// Transfer errors. ErrLocalFileMissing wraps ErrTransfer so that a
	// missing local artifact still matches the broader transfer class.
	ErrTransfer         = errors.New("transfer error")
	ErrLocalFileMissing = fmt.Errorf("%w: local file missing", ErrTransfer)

	// Cleanup (remote remove) errors.
	ErrCleanup = errors.New("cleanup error")
)
