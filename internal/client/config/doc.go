// Package config loads runtime configuration for the wedding admin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-b string   backend: grpc, postgres, document or memory
//	-a string   address:port of the records gRPC endpoint
//	-t string   admin access token
//	-d string   PostgreSQL DSN (postgres backend)
//	-s string   document bucket (document backend)
//	-f string   memory backend flavor: relational or document
//	-m string   offline mirror SQLite file
//	-i int      online status check interval (seconds)
//	-o          start in offline mode
//	-u, -p      S3 user and password
//	-k string   S3 bucket for uploaded photos
//	-g string   S3 region
//	-e string   S3 endpoint, e.g. a MinIO URL
//	-l string   log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "backend": "grpc",
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "mirror_path": "mirror.db",
//	  "online_check_interval": "3s"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
