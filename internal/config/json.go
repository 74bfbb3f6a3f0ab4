package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/inboxtester/internal/flagx"
	"github.com/dmitrijs2005/inboxtester/internal/timex"
	"github.com/dmitrijs2005/inboxtester/internal/transfer"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be either strings like "2s" or integer
// nanoseconds. After parsing, values are copied into the runtime Config.
type JsonConfig struct {
	SourceFile       string `json:"source_file"`
	SenderKeyPath    string `json:"sender_key"`
	RecipientKeyPath string `json:"recipient_key"`
	KeyPassphrase    string `json:"key_passphrase"`

	Backend string `json:"backend"`

	SFTPHost          string `json:"sftp_host"`
	SFTPPort          int    `json:"sftp_port"`
	SFTPUser          string `json:"sftp_user"`
	SFTPKeyPath       string `json:"sftp_key"`
	SFTPKeyPassphrase string `json:"sftp_key_passphrase"`

	S3Endpoint  string `json:"s3_endpoint"`
	S3Bucket    string `json:"s3_bucket"`
	S3Region    string `json:"s3_region"`
	S3AccessKey string `json:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key"`
	S3UseTLS    *bool  `json:"s3_use_tls"`
	S3RootCA    string `json:"s3_root_ca"`

	ProbeInterval timex.Duration `json:"probe_interval"`
	ProbeDeadline timex.Duration `json:"probe_deadline"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flags. Missing file path means no JSON is loaded. Fields
// absent from the file keep their current (default) values. Read or
// unmarshal errors panic, as a broken config file should fail the scenario
// before anything touches the inbox.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.SourceFile != "" {
		cfg.SourceFile = jc.SourceFile
	}
	if jc.SenderKeyPath != "" {
		cfg.SenderKeyPath = jc.SenderKeyPath
	}
	if jc.RecipientKeyPath != "" {
		cfg.RecipientKeyPath = jc.RecipientKeyPath
	}
	if jc.KeyPassphrase != "" {
		cfg.KeyPassphrase = jc.KeyPassphrase
	}
	if jc.Backend != "" {
		cfg.Backend = transfer.Kind(jc.Backend)
	}
	if jc.SFTPHost != "" {
		cfg.SFTPHost = jc.SFTPHost
	}
	if jc.SFTPPort != 0 {
		cfg.SFTPPort = jc.SFTPPort
	}
	if jc.SFTPUser != "" {
		cfg.SFTPUser = jc.SFTPUser
	}
	if jc.SFTPKeyPath != "" {
		cfg.SFTPKeyPath = jc.SFTPKeyPath
	}
	if jc.SFTPKeyPassphrase != "" {
		cfg.SFTPKeyPassphrase = jc.SFTPKeyPassphrase
	}
	if jc.S3Endpoint != "" {
		cfg.S3Endpoint = jc.S3Endpoint
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.S3UseTLS != nil {
		cfg.S3UseTLS = *jc.S3UseTLS
	}
	if jc.S3RootCA != "" {
		cfg.S3RootCA = jc.S3RootCA
	}
	if jc.ProbeInterval.Duration != 0 {
		cfg.ProbeInterval = time.Duration(jc.ProbeInterval.Duration)
	}
	if jc.ProbeDeadline.Duration != 0 {
		cfg.ProbeDeadline = time.Duration(jc.ProbeDeadline.Duration)
	}
}
