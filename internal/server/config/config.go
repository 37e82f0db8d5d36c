// Package config handles configuration for the account server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the account server.
//
// Fields:
//   - EndpointAddrGRPC / EndpointAddrHTTP: bind addresses of the two APIs.
//     An empty HTTP address disables the HTTP gateway.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps accounts in memory.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - TokenValidityDuration: session token lifetime.
//   - LoginAttemptsPerMinute: per-client login budget, 0 disables throttling.
//   - S3*: avatar object storage. An empty S3BaseEndpoint or S3Bucket keeps
//     avatars inline in the profile.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrGRPC       string
	EndpointAddrHTTP       string
	DatabaseDSN            string
	SecretKey              string
	TokenValidityDuration  time.Duration
	LoginAttemptsPerMinute int
	S3RootUser             string
	S3RootPassword         string
	S3Bucket               string
	S3Region               string
	S3BaseEndpoint         string
	LogLevel               string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 60 * time.Minute
	c.LoginAttemptsPerMinute = 5
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "avatars"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.LogLevel = "info"
}

// AvatarStorageEnabled reports whether avatars go to object storage.
func (c *Config) AvatarStorageEnabled() bool {
	return c.S3BaseEndpoint != "" && c.S3Bucket != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
