package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/streamio/pkg/cli"
)

const appName = "streamio"

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	outputJSON  bool
	query       string
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streamio",
	Short: "Buffered stream copy tool",
	Long: `streamio - copy byte streams between files, S3, a local blob store
and websocket peers.

Endpoints:
  -                  stdin / stdout
  path, file:path    local file (relative to the context's local root)
  s3://bucket/key    S3 object
  kv:name            blob in the local blob store
  ws://..., wss://.. websocket stream (see 'streamio serve')

Configuration is stored in ~/.streamio/streamio/ and supports multiple
contexts, similar to kubectl's context management.

Examples:
  # Set up a context with an S3-compatible store
  streamio config add-context dev --s3-bucket media --s3-endpoint http://localhost:9000 --s3-path-style

  # Upload a file
  streamio -c dev copy video.mp4 s3://media/raw/video.mp4

  # Copy into the blob store and print only the byte count
  streamio copy notes.txt kv:notes --json --query .bytes
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(os.Stderr, verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.streamio/streamio/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "result output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().StringVar(&query, "query", "", "jq expression applied to the result")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(blobCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	var err error
	globalConfig, err = cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// getContext returns the context to use. Without -c and without a current
// context the defaults apply.
func getContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	if contextName == "" && cfg.CurrentContext == "" {
		printVerbose("No context selected, using defaults")
		return &cli.Context{}, nil
	}
	ctx, err := cfg.ResolveContext(contextName)
	if err != nil {
		return nil, err
	}
	name := contextName
	if name == "" {
		name = cfg.CurrentContext
	}
	printVerbose("Using context: %s", name)
	return ctx, nil
}

// printVerbose prints verbose output if enabled
func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}

// outputResult prints a command result honoring --output, --json and --query.
// A nil w means stdout.
func outputResult(result any, w io.Writer) error {
	format := cli.FormatYAML
	if outputJSON {
		format = cli.FormatJSON
	}
	opts := cli.OutputOptions{
		Format: format,
		File:   outputFile,
		Query:  query,
	}
	if outputFile == "" {
		opts.Writer = w
	}
	return cli.Output(result, opts)
}
