package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/streamio/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

A context names a local root, a blob store directory, S3 settings and a
server address. Configuration is stored in ~/.streamio/streamio/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a context, replacing an existing one with the same name.

Example:
  streamio config add-context local --local-root ~/media --buffer-size 65536
  streamio config add-context minio --s3-bucket media --s3-endpoint http://localhost:9000 \
      --s3-access-key KEY --s3-secret-key SECRET --s3-path-style`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		flags := cmd.Flags()

		bufferSize, err := flags.GetInt("buffer-size")
		if err != nil {
			return fmt.Errorf("failed to read 'buffer-size' flag: %w", err)
		}
		if bufferSize < 0 {
			return fmt.Errorf("--buffer-size must not be negative")
		}

		ctx := &cli.Context{BufferSize: bufferSize}
		for flag, dst := range map[string]*string{
			"local-root": &ctx.LocalRoot,
			"blob-dir":   &ctx.BlobDir,
			"server":     &ctx.Server,
		} {
			if *dst, err = flags.GetString(flag); err != nil {
				return fmt.Errorf("failed to read '%s' flag: %w", flag, err)
			}
		}

		s3 := &cli.S3Settings{}
		for flag, dst := range map[string]*string{
			"s3-bucket":     &s3.Bucket,
			"s3-region":     &s3.Region,
			"s3-endpoint":   &s3.Endpoint,
			"s3-prefix":     &s3.Prefix,
			"s3-access-key": &s3.AccessKey,
			"s3-secret-key": &s3.SecretKey,
		} {
			if *dst, err = flags.GetString(flag); err != nil {
				return fmt.Errorf("failed to read '%s' flag: %w", flag, err)
			}
		}
		if s3.PathStyle, err = flags.GetBool("s3-path-style"); err != nil {
			return fmt.Errorf("failed to read 's3-path-style' flag: %w", err)
		}
		if *s3 != (cli.S3Settings{}) {
			ctx.S3 = s3
		}

		if err := getConfig().AddContext(name, ctx); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context %q", args[0])
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Display the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
			return nil
		}
		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"get-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if len(cfg.Contexts) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tLOCAL_ROOT\tS3_BUCKET\tSERVER")
		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			bucket := ""
			if ctx.S3 != nil {
				bucket = ctx.S3.Bucket
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", current, name, orDefault(ctx.LocalRoot), bucket, ctx.Server)
		}
		return w.Flush()
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		view := struct {
			Path           string                  `json:"path" yaml:"path"`
			CurrentContext string                  `json:"current_context" yaml:"current_context"`
			Contexts       map[string]*cli.Context `json:"contexts" yaml:"contexts"`
		}{
			Path:           cfg.Path(),
			CurrentContext: cfg.CurrentContext,
			Contexts:       make(map[string]*cli.Context, len(cfg.Contexts)),
		}
		for name, ctx := range cfg.Contexts {
			view.Contexts[name] = ctx.Masked()
		}
		return outputResult(view, nil)
	},
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}

func init() {
	configAddContextCmd.Flags().Int("buffer-size", 0, "stream buffer size in bytes (default 4096)")
	configAddContextCmd.Flags().String("local-root", "", "root directory for local paths")
	configAddContextCmd.Flags().String("blob-dir", "", "blob store directory (default ~/.streamio/streamio/data/blobs)")
	configAddContextCmd.Flags().String("server", "", "listen address for serve")
	configAddContextCmd.Flags().String("s3-bucket", "", "default S3 bucket")
	configAddContextCmd.Flags().String("s3-region", "", "S3 region")
	configAddContextCmd.Flags().String("s3-endpoint", "", "S3-compatible endpoint URL")
	configAddContextCmd.Flags().String("s3-prefix", "", "key prefix for S3 objects")
	configAddContextCmd.Flags().String("s3-access-key", "", "S3 access key")
	configAddContextCmd.Flags().String("s3-secret-key", "", "S3 secret key")
	configAddContextCmd.Flags().Bool("s3-path-style", false, "use path-style S3 addressing")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
