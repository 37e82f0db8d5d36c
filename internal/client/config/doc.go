// Package config loads runtime configuration for the terminal client.
//
// Sources, in increasing precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with -c or -config.
//  3. Command-line flags (-a -m -f -l -v -i).
//
// Example JSON:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "backend": "grpc",
//	  "session_file": "/tmp/session.db",
//	  "mock_latency": "250ms",
//	  "log_level": "info",
//	  "online_check_interval": "3s"
//	}
package config
