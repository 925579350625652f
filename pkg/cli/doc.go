// Package cli provides the configuration and output helpers of the streamio
// command.
//
// Configuration is stored in ~/.streamio/<app>/config.yaml and holds named
// contexts, similar to kubectl. A context says where streams live: a local
// root, a blob store directory, an S3 bucket and a websocket server address.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig("streamio")
//	ctx, err := cfg.ResolveContext(name)
//
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    Query:  ".bytes",
//	})
package cli
