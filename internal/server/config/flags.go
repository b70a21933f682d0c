package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophcal/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., "127.0.0.1:8080")
//	-r string   gRPC health bind address ("" disables)
//	-f string   data directory for the file backend
//	-b string   storage backend: file | s3 | postgres
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-x int      token exp claim, unix seconds
//	-u string   S3 root user
//	-p string   S3 root password
//	-k string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-q string   Kafka brokers, comma separated
//	-t string   Kafka topic
//	-l string   log backend: slog | zerolog
//	-o bool     require a token on /friends_schedules/{id}
//
// Only the flags above are picked out of os.Args (see flagx), so other
// components may define their own.
func parseFlags(config *Config) {
	args := flagx.FilterArgsWithBools(os.Args[1:],
		[]string{"-a", "-r", "-f", "-b", "-d", "-s", "-x", "-u", "-p", "-k", "-g", "-e", "-q", "-t", "-l"},
		[]string{"-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "r", config.EndpointAddrGRPC, "address and port to run gRPC health server")
	fs.StringVar(&config.DataDir, "f", config.DataDir, "data directory")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend (file, s3, postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.Int64Var(&config.TokenExpiresAt, "x", config.TokenExpiresAt, "token expiration (unix seconds)")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "k", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	brokers := fs.String("q", strings.Join(config.KafkaBrokers, ","), "Kafka brokers (comma separated)")

	fs.StringVar(&config.KafkaTopic, "t", config.KafkaTopic, "Kafka topic")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend (slog, zerolog)")
	fs.BoolVar(&config.FriendsRequireAuth, "o", config.FriendsRequireAuth, "require token for friends schedules")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.KafkaBrokers = splitList(*brokers)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
