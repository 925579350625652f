package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/streamio/pkg/blob"
	"github.com/haivivi/streamio/pkg/cli"
)

var blobCmd = &cobra.Command{
	Use:   "blob",
	Short: "Inspect the local blob store",
	Long: `Inspect the blobs written through kv: endpoints.

The store lives in the context's blob_dir, by default
~/.streamio/streamio/data/blobs.`,
}

var blobListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List committed blobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBlobStore(func(store *blob.Store) error {
			var manifests []*blob.Manifest
			for m, err := range store.List(cmd.Context()) {
				if err != nil {
					return err
				}
				manifests = append(manifests, m)
			}
			if len(manifests) == 0 && query == "" {
				cli.PrintInfo("No blobs stored")
				return nil
			}
			return outputResult(manifests, nil)
		})
	},
}

var blobStatCmd = &cobra.Command{
	Use:   "stat <name>",
	Short: "Show the manifest of a blob",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBlobStore(func(store *blob.Store) error {
			m, err := store.Stat(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return outputResult(m, nil)
		})
	},
}

var blobRmCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Delete a blob",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBlobStore(func(store *blob.Store) error {
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cli.PrintSuccess("Blob %q deleted", args[0])
			return nil
		})
	},
}

func withBlobStore(fn func(*blob.Store) error) error {
	cfg, err := getContext()
	if err != nil {
		return err
	}
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}
	defer e.Close()
	store, err := e.blobStore()
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}
	return fn(store)
}

func init() {
	blobCmd.AddCommand(blobListCmd)
	blobCmd.AddCommand(blobStatCmd)
	blobCmd.AddCommand(blobRmCmd)
}
