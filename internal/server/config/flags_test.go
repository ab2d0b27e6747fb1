package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-g", ":7000", "-d", "db", "-s", "secret", "-alg", "HS384",
				"-t", "15", "-l", "debug", "-trace", "-u", "user", "-p", "password", "-b", "bucket",
				"-r", "us-west-1", "-e", "http://endpoint",
			},
			expected: &Config{
				HTTPAddr:         "127.0.0.1:9090",
				GRPCHealthAddr:   ":7000",
				DatabaseDSN:      "db",
				SecretKey:        "secret",
				SigningAlgorithm: "HS384",
				AccessTokenTTL:   15 * time.Minute,
				LogLevel:         "debug",
				TracingEnabled:   true,
				S3RootUser:       "user",
				S3RootPassword:   "password",
				S3Bucket:         "bucket",
				S3Region:         "us-west-1",
				S3BaseEndpoint:   "http://endpoint",
			},
		},
		{
			name:        "non-numeric ttl",
			args:        []string{"-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsSubMinuteTTLWithoutFlag(t *testing.T) {
	config := &Config{AccessTokenTTL: 90 * time.Second}
	parseFlags(config, []string{"-c", "cfg.json", "-a", ":1"})

	assert.Equal(t, 90*time.Second, config.AccessTokenTTL)
	assert.Equal(t, ":1", config.HTTPAddr)
}
