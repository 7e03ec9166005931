package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/weddingkeeper/internal/flagx"
	"github.com/dmitrijs2005/weddingkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept both strings such as "24h" and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	LogLevel                    string         `json:"log_level"`
}

// parseJson loads configuration values from the file named by -c or
// -config. Without either flag nothing is loaded. An unreadable file or
// invalid JSON panics. Empty fields in the file keep the current values.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrGRPC != "" {
		config.EndpointAddrGRPC = c.EndpointAddrGRPC
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
