package config

import (
	"encoding/json"
	"os"

	"github.com/gmpi-project/gmpi/internal/flagx"
	"github.com/gmpi-project/gmpi/internal/timex"
)

// JsonConfig is the DTO for JSON config files. It uses timex.Duration for
// interval fields, which parses both string values such as "30m" and
// integer nanoseconds. After unmarshalling, its fields are copied into the
// runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn"`
	SecretKey        string         `json:"secret_key"`
	SessionTimeout   timex.Duration `json:"session_timeout"`
	DemoMode         bool           `json:"demo_mode"`
	S3RootUser       string         `json:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flags into the provided Config. If neither flag is set,
// nothing is loaded. An unreadable or malformed file panics: the server
// must not start on a half-applied configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SessionTimeout = c.SessionTimeout.Duration
	config.DemoMode = c.DemoMode
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
