package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/weddingkeeper/internal/flagx"
	"github.com/dmitrijs2005/weddingkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	Backend             string         `json:"backend"`
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	AccessToken         string         `json:"access_token"`
	DatabaseDSN         string         `json:"database_dsn"`
	DocumentBucket      string         `json:"document_bucket"`
	MemoryFlavor        string         `json:"memory_flavor"`
	MirrorPath          string         `json:"mirror_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	StartOffline        bool           `json:"start_offline"`
	S3RootUser          string         `json:"s3_root_user"`
	S3RootPassword      string         `json:"s3_root_password"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file named by
// -c or -config. Fields missing from the file keep their current value.
// Panics on read or unmarshal errors.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
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

	setString(&cfg.Backend, jc.Backend)
	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.AccessToken, jc.AccessToken)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.DocumentBucket, jc.DocumentBucket)
	setString(&cfg.MemoryFlavor, jc.MemoryFlavor)
	setString(&cfg.MirrorPath, jc.MirrorPath)
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	cfg.StartOffline = cfg.StartOffline || jc.StartOffline
	setString(&cfg.S3RootUser, jc.S3RootUser)
	setString(&cfg.S3RootPassword, jc.S3RootPassword)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.LogLevel, jc.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
