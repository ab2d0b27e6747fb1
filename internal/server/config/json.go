package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vocabkeeper/internal/flagx"
	"github.com/dmitrijs2005/vocabkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Duration fields
// use timex.Duration so both "30m" and integer nanoseconds are accepted.
// Fields are pointers so that keys absent from the file leave the
// corresponding Config value untouched.
type JsonConfig struct {
	HTTPAddr         *string         `json:"http_addr"`
	GRPCHealthAddr   *string         `json:"grpc_health_addr"`
	DatabaseDSN      *string         `json:"database_dsn"`
	SecretKey        *string         `json:"secret_key"`
	SigningAlgorithm *string         `json:"signing_algorithm"`
	AccessTokenTTL   *timex.Duration `json:"access_token_ttl"`
	LogLevel         *string         `json:"log_level"`
	TracingEnabled   *bool           `json:"tracing_enabled"`
	S3RootUser       *string         `json:"s3_root_user"`
	S3RootPassword   *string         `json:"s3_root_password"`
	S3Bucket         *string         `json:"s3_bucket"`
	S3Region         *string         `json:"s3_region"`
	S3BaseEndpoint   *string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the JSON file named by -c/-config (or
// $VOCAB_CONFIG) onto config. Without a path it does nothing. An unreadable
// file or invalid JSON panics: the server must not start half-configured.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCHealthAddr, c.GRPCHealthAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SigningAlgorithm, c.SigningAlgorithm)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenTTL != nil {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.TracingEnabled != nil {
		config.TracingEnabled = *c.TracingEnabled
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
