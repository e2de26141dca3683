package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/notespal/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-n", "-l", "-u", "-p", "-b", "-g", "-e", "-x"}

// parseFlags overlays short command-line flags onto config:
//
//	-a string   gRPC bind address
//	-d string   PostgreSQL DSN
//	-s string   token signing secret
//	-n bool     bind note keys to note ids (write -n=false to disable)
//	-l string   log level
//	-u/-p       S3 user and password
//	-b/-g/-e    S3 bucket, region and endpoint
//	-x int      backup link validity, minutes
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.BoolVar(&config.BindNoteID, "n", config.BindNoteID, "bind note keys to note ids")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	presign := fs.Int("x", int(config.PresignExpiry.Minutes()), "backup link validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.PresignExpiry = time.Duration(*presign) * time.Minute
}
