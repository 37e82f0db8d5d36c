package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a string   address:port of the account server
//	-m string   backend, "mock" or "grpc"
//	-f string   session database file
//	-l int      mock call latency in milliseconds (login takes twice as long)
//	-v string   log level
//	-i int      online check interval in seconds
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-f", "-l", "-v", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	backend := fs.String("m", string(cfg.Backend), "account backend: mock or grpc")
	fs.StringVar(&cfg.SessionFile, "f", cfg.SessionFile, "session database file")
	latency := fs.Int("l", int(cfg.MockLatency.Milliseconds()), "mock latency (in milliseconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level: debug, info, warn, error")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	switch Backend(*backend) {
	case BackendMock, BackendGRPC:
		cfg.Backend = Backend(*backend)
	default:
		panic(fmt.Sprintf("unknown backend %q", *backend))
	}

	cfg.MockLatency = time.Duration(*latency) * time.Millisecond
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
