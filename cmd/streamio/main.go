// Package main provides the streamio CLI tool.
//
// Usage:
//
//	streamio [flags] <command> [args]
//
// Commands:
//
//	copy     - Copy a stream between endpoints
//	blob     - Inspect the local blob store
//	serve    - Serve local files over websocket streams
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.streamio/streamio/
//	Use 'streamio config' commands to manage contexts.
package main

import (
	"os"

	"github.com/haivivi/streamio/cmd/streamio/commands"
	"github.com/haivivi/streamio/pkg/cli"
)

func main() {
	if err := commands.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}
