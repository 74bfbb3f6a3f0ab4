// Package config handles configuration for the harness, including defaults,
// JSON overlay, and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/inboxtester/internal/transfer"
)

// Config holds runtime settings for one harness invocation.
//
// Fields:
//   - SourceFile: plaintext file to encrypt and deliver.
//   - SenderKeyPath / RecipientKeyPath: Crypt4GH key files; KeyPassphrase
//     unlocks the sender key when it is passphrase-protected.
//   - Backend: which inbox variant to target ("sftp" or "s3").
//   - SFTP*: inbox host settings for the SFTP variant.
//   - S3*: inbox settings for the S3-compatible variant. S3RootCA points at
//     a PEM bundle for the self-signed test deployment.
//   - ProbeInterval / ProbeDeadline: retry pacing and ceiling for the
//     pre-flight connection probe.
type Config struct {
	SourceFile       string
	SenderKeyPath    string
	RecipientKeyPath string
	KeyPassphrase    string

	Backend transfer.Kind

	SFTPHost          string
	SFTPPort          int
	SFTPUser          string
	SFTPKeyPath       string
	SFTPKeyPassphrase string

	S3Endpoint  string
	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3UseTLS    bool
	S3RootCA    string

	ProbeInterval time.Duration
	ProbeDeadline time.Duration
}

// LoadDefaults populates Config with the test-deployment defaults.
// NOTE: these match the throwaway fixtures of the compose setup and are
// meant to be overridden for any other environment.
func (c *Config) LoadDefaults() {
	c.SenderKeyPath = "sender.sec"
	c.RecipientKeyPath = "recipient.pub"
	c.KeyPassphrase = "password"

	c.Backend = transfer.KindSFTP

	c.SFTPHost = "localhost"
	c.SFTPPort = 2222
	c.SFTPUser = "test"
	c.SFTPKeyPath = "user.key"
	c.SFTPKeyPassphrase = "password"

	c.S3Bucket = "lega"
	c.S3Region = "us-east-1"
	c.S3UseTLS = true

	c.ProbeInterval = 2 * time.Second
	c.ProbeDeadline = 4 * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// SFTPTarget assembles the SFTP inbox description for the transfer layer.
func (c *Config) SFTPTarget() transfer.SFTPTarget {
	return transfer.SFTPTarget{
		Host:          c.SFTPHost,
		Port:          c.SFTPPort,
		User:          c.SFTPUser,
		KeyPath:       c.SFTPKeyPath,
		KeyPassphrase: c.SFTPKeyPassphrase,
	}
}

// S3Target assembles the S3 inbox description for the transfer layer.
func (c *Config) S3Target() transfer.S3Target {
	return transfer.S3Target{
		Endpoint:  c.S3Endpoint,
		Bucket:    c.S3Bucket,
		Region:    c.S3Region,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		UseTLS:    c.S3UseTLS,
		RootCA:    c.S3RootCA,
	}
}

// Target selects the backend description by the configured kind.
func (c *Config) Target() transfer.Target {
	return transfer.Target{
		Kind: c.Backend,
		SFTP: c.SFTPTarget(),
		S3:   c.S3Target(),
	}
}
