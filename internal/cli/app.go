// Package cli dispatches harness operations. Each invocation runs exactly
// one operation against the configured inbox and exits; there is no
// long-running mode.
package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/inboxtester/internal/common"
	"github.com/dmitrijs2005/inboxtester/internal/config"
	"github.com/dmitrijs2005/inboxtester/internal/deliver"
	"github.com/dmitrijs2005/inboxtester/internal/envelope"
	"github.com/dmitrijs2005/inboxtester/internal/keys"
	"github.com/dmitrijs2005/inboxtester/internal/logging"
	"github.com/dmitrijs2005/inboxtester/internal/probe"
	"github.com/dmitrijs2005/inboxtester/internal/transfer"
)

// DefaultCommand is what runs when no operation is named on the command line.
const DefaultCommand = "deliver"

type App struct {
	cfg *config.Config
	log logging.Logger
}

func NewApp(cfg *config.Config, log logging.Logger) *App {
	return &App{cfg: cfg, log: log}
}

// Run executes one named operation:
//
//	probe    — pre-flight connection check against the configured backend
//	encrypt  — produce the .c4ga artifact locally, no transfer
//	upload   — push an already-encrypted artifact to the inbox
//	remove   — delete the artifact from the inbox
//	deliver  — encrypt then upload (the default)
func (a *App) Run(ctx context.Context, command string) error {
	switch command {
	case "probe":
		return a.probe(ctx)
	case "encrypt":
		_, err := a.encrypt(ctx)
		return err
	case "upload":
		return a.upload(ctx)
	case "remove":
		return a.remove(ctx)
	case "deliver":
		return a.deliver(ctx)
	default:
		return fmt.Errorf("unknown operation %q", command)
	}
}

func (a *App) probe(ctx context.Context) error {
	p := probe.New(a.log)
	p.Policy.Interval = a.cfg.ProbeInterval
	p.Policy.Deadline = a.cfg.ProbeDeadline

	switch a.cfg.Backend {
	case transfer.KindS3:
		return p.S3(ctx, a.cfg.S3Target())
	default:
		return p.SSH(ctx, probe.SSHTarget{
			Host:          a.cfg.SFTPHost,
			Port:          a.cfg.SFTPPort,
			User:          a.cfg.SFTPUser,
			KeyPath:       a.cfg.SFTPKeyPath,
			KeyPassphrase: a.cfg.SFTPKeyPassphrase,
		})
	}
}

func (a *App) resolveKeys() (*keys.Material, error) {
	passphrase, err := a.passphrase()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(passphrase)
	return keys.Resolve(a.cfg.SenderKeyPath, a.cfg.RecipientKeyPath, passphrase)
}

func (a *App) encrypt(ctx context.Context) (string, error) {
	material, err := a.resolveKeys()
	if err != nil {
		return "", err
	}
	return envelope.NewEncryptor(material, a.log).EncryptFile(ctx, a.cfg.SourceFile)
}

func (a *App) upload(ctx context.Context) error {
	backend, err := transfer.New(a.cfg.Target(), a.log)
	if err != nil {
		return err
	}
	return backend.Upload(ctx, envelope.OutputPath(a.cfg.SourceFile))
}

func (a *App) remove(ctx context.Context) error {
	backend, err := transfer.New(a.cfg.Target(), a.log)
	if err != nil {
		return err
	}
	return backend.Remove(ctx, envelope.OutputPath(a.cfg.SourceFile))
}

func (a *App) deliver(ctx context.Context) error {
	material, err := a.resolveKeys()
	if err != nil {
		return err
	}
	o, err := deliver.New(material, a.cfg.Target(), a.log)
	if err != nil {
		return err
	}
	return o.Deliver(ctx, a.cfg.SourceFile).Err
}
