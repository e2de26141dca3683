// Package config loads runtime configuration for the notectl client.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Flags
//
//	-a string   address:port of the gRPC endpoint
//	-k string   access token issued by the auth provider
//	-w int      per-request timeout (seconds)
//
// JSON
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJ...",
//	  "request_timeout": "10s"
//	}
package config
