package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/weddingkeeper/internal/flagx"
)

var valueFlags = []string{"-b", "-a", "-t", "-d", "-s", "-f", "-m", "-i", "-u", "-p", "-k", "-g", "-e", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   backend: grpc, postgres, document or memory
//	-a string   address and port of the records server
//	-t string   admin access token
//	-d string   PostgreSQL DSN
//	-s string   document bucket
//	-f string   memory backend flavor (relational or document)
//	-m string   mirror database file
//	-i int      online check interval in seconds
//	-o          start offline
//	-u string   S3 user
//	-p string   S3 password
//	-k string   S3 photo bucket
//	-g string   S3 region
//	-e string   S3 endpoint
//	-l string   log level
//
// The function filters os.Args to only include the flags it knows about,
// using flagx, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgsWithSwitches(os.Args[1:], valueFlags, []string{"-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend (grpc, postgres, document, memory)")
	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "admin access token")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.DocumentBucket, "s", cfg.DocumentBucket, "document bucket")
	fs.StringVar(&cfg.MemoryFlavor, "f", cfg.MemoryFlavor, "memory backend flavor (relational, document)")
	fs.StringVar(&cfg.MirrorPath, "m", cfg.MirrorPath, "offline mirror file")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.BoolVar(&cfg.StartOffline, "o", cfg.StartOffline, "start offline")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 password")
	fs.StringVar(&cfg.S3Bucket, "k", cfg.S3Bucket, "S3 photo bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 endpoint")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
