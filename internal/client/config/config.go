package config

import "time"

// Backend selects the AccountService implementation.
type Backend string

const (
	BackendMock Backend = "mock"
	BackendGRPC Backend = "grpc"
)

// Config holds runtime settings of the terminal client.
//
// SessionFile is the sqlite file holding the session token; when empty the
// client uses session.db under its per-user data directory.
type Config struct {
	ServerEndpointAddr  string
	Backend             Backend
	SessionFile         string
	MockLatency         time.Duration
	LogLevel            string
	OnlineCheckInterval time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.Backend = BackendMock
	c.SessionFile = ""
	c.MockLatency = 500 * time.Millisecond
	c.LogLevel = "warn"
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig applies defaults, then the optional JSON file, then flags.
// Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
