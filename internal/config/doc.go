// Package config loads runtime configuration for the harness.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults), matching the
//     throwaway compose deployment.
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Interval fields use timex.Duration, so values can be either strings like
// "2s" or integer nanoseconds:
//
//	{
//	  "source_file": "plaintext.txt",
//	  "sender_key": "sender.sec",
//	  "recipient_key": "recipient.pub",
//	  "backend": "sftp",
//	  "sftp_host": "localhost",
//	  "sftp_port": 2222,
//	  "probe_interval": "2s",
//	  "probe_deadline": "4h"
//	}
//
// Environment: the only variable read by the harness is DEFAULT_LOG, which
// selects log verbosity (handled by the logging package, not here).
package config
