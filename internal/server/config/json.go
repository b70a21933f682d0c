package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophcal/internal/flagx"
	"github.com/dmitrijs2005/gophcal/internal/timex"
	"github.com/tidwall/jsonc"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields
// distinguish "absent" from zero values, so a partial file only overrides
// what it names. Durations accept "30s" style strings or nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP   *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC   *string         `json:"endpoint_addr_grpc"`
	DataDir            *string         `json:"data_dir"`
	StorageBackend     *string         `json:"storage_backend"`
	DatabaseDSN        *string         `json:"database_dsn"`
	SecretKey          *string         `json:"secret_key"`
	TokenExpiresAt     *int64          `json:"token_expires_at"`
	S3RootUser         *string         `json:"s3_root_user"`
	S3RootPassword     *string         `json:"s3_root_password"`
	S3Bucket           *string         `json:"s3_bucket"`
	S3Region           *string         `json:"s3_region"`
	S3BaseEndpoint     *string         `json:"s3_base_endpoint"`
	S3Prefix           *string         `json:"s3_prefix"`
	KafkaBrokers       []string        `json:"kafka_brokers"`
	KafkaTopic         *string         `json:"kafka_topic"`
	LogBackend         *string         `json:"log_backend"`
	FriendsRequireAuth *bool           `json:"friends_require_auth"`
	RateLimit          *float64        `json:"rate_limit"`
	RateBurst          *int            `json:"rate_burst"`
	RateExpiresIn      *timex.Duration `json:"rate_expires_in"`
	ShutdownTimeout    *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from the file named by -c/-config
// into config. Comments and trailing commas are allowed (JSONC). Without
// the flag nothing is loaded. An unreadable or invalid file panics, as a
// misconfigured server must not start.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(jsonc.ToJSON(file), c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.DataDir, c.DataDir)
	setIf(&config.StorageBackend, c.StorageBackend)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.TokenExpiresAt, c.TokenExpiresAt)
	setIf(&config.S3RootUser, c.S3RootUser)
	setIf(&config.S3RootPassword, c.S3RootPassword)
	setIf(&config.S3Bucket, c.S3Bucket)
	setIf(&config.S3Region, c.S3Region)
	setIf(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setIf(&config.S3Prefix, c.S3Prefix)
	if c.KafkaBrokers != nil {
		config.KafkaBrokers = c.KafkaBrokers
	}
	setIf(&config.KafkaTopic, c.KafkaTopic)
	setIf(&config.LogBackend, c.LogBackend)
	setIf(&config.FriendsRequireAuth, c.FriendsRequireAuth)
	setIf(&config.RateLimit, c.RateLimit)
	setIf(&config.RateBurst, c.RateBurst)
	if c.RateExpiresIn != nil {
		config.RateExpiresIn = c.RateExpiresIn.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
