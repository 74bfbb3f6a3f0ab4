package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/inboxtester/internal/flagx"
	"github.com/dmitrijs2005/inboxtester/internal/transfer"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-f string   plaintext source file
//	-s string   sender Crypt4GH private key
//	-r string   recipient Crypt4GH public key
//	-p string   sender key passphrase
//	-m string   backend kind: sftp or s3
//	-H string   SFTP host
//	-P int      SFTP port
//	-u string   SFTP user
//	-k string   SFTP private key file
//	-w string   SFTP key passphrase
//	-e string   S3 endpoint URL
//	-b string   S3 bucket
//	-g string   S3 region
//	-a string   S3 access key
//	-x string   S3 secret key
//	-t bool     S3 TLS enable
//	-z string   S3 root CA bundle
//	-i int      probe retry interval (seconds)
//	-d int      probe deadline (seconds)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so the operation name and flags owned by other
// components do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-f", "-s", "-r", "-p", "-m",
		"-H", "-P", "-u", "-k", "-w",
		"-e", "-b", "-g", "-a", "-x", "-t", "-z",
		"-i", "-d",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.SourceFile, "f", cfg.SourceFile, "plaintext source file")
	fs.StringVar(&cfg.SenderKeyPath, "s", cfg.SenderKeyPath, "sender private key file")
	fs.StringVar(&cfg.RecipientKeyPath, "r", cfg.RecipientKeyPath, "recipient public key file")
	fs.StringVar(&cfg.KeyPassphrase, "p", cfg.KeyPassphrase, "sender key passphrase")

	backend := fs.String("m", string(cfg.Backend), "backend kind (sftp or s3)")

	fs.StringVar(&cfg.SFTPHost, "H", cfg.SFTPHost, "sftp host")
	fs.IntVar(&cfg.SFTPPort, "P", cfg.SFTPPort, "sftp port")
	fs.StringVar(&cfg.SFTPUser, "u", cfg.SFTPUser, "sftp user")
	fs.StringVar(&cfg.SFTPKeyPath, "k", cfg.SFTPKeyPath, "sftp private key file")
	fs.StringVar(&cfg.SFTPKeyPassphrase, "w", cfg.SFTPKeyPassphrase, "sftp key passphrase")

	fs.StringVar(&cfg.S3Endpoint, "e", cfg.S3Endpoint, "s3 endpoint url")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "s3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "s3 region")
	fs.StringVar(&cfg.S3AccessKey, "a", cfg.S3AccessKey, "s3 access key")
	fs.StringVar(&cfg.S3SecretKey, "x", cfg.S3SecretKey, "s3 secret key")
	fs.BoolVar(&cfg.S3UseTLS, "t", cfg.S3UseTLS, "s3 tls enable")
	fs.StringVar(&cfg.S3RootCA, "z", cfg.S3RootCA, "s3 root ca bundle")

	probeInterval := fs.Int("i", int(cfg.ProbeInterval.Seconds()), "probe retry interval (seconds)")
	probeDeadline := fs.Int("d", int(cfg.ProbeDeadline.Seconds()), "probe deadline (seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Backend = transfer.Kind(*backend)
	cfg.ProbeInterval = time.Duration(*probeInterval) * time.Second
	cfg.ProbeDeadline = time.Duration(*probeDeadline) * time.Second
}
