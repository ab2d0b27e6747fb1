package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/vocabkeeper/internal/flagx"
)

// serverFlags lists the flags parseFlags owns; anything else on the command
// line (-c/-config in particular) is ignored here.
var serverFlags = []string{"-a", "-g", "-d", "-s", "-alg", "-t", "-l", "-trace", "-u", "-p", "-b", "-r", "-e"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-alg string JWT signing algorithm (HS256, HS384, HS512)
//	-t int      access token validity, minutes
//	-l string   log level
//	-trace      enable stdout tracing
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-r string   S3 region
//	-e string   S3 base endpoint
//
// The token TTL is given in whole minutes and converted to time.Duration.
// A malformed flag panics.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP API")
	fs.StringVar(&config.GRPCHealthAddr, "g", config.GRPCHealthAddr, "address and port to run the gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret key")
	fs.StringVar(&config.SigningAlgorithm, "alg", config.SigningAlgorithm, "token signing algorithm")
	ttl := fs.Int("t", int(config.AccessTokenTTL.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.TracingEnabled, "trace", config.TracingEnabled, "export traces to stdout")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		panic(err)
	}

	// Only an explicit -t replaces the TTL; otherwise a sub-minute value from
	// JSON or the environment would be truncated.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenTTL = time.Duration(*ttl) * time.Minute
		}
	})
}
