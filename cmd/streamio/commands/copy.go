package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/streamio/pkg/cli"
	"github.com/haivivi/streamio/pkg/stream"
)

var copyBufferSize int

var copyCmd = &cobra.Command{
	Use:   "copy <src> <dst>",
	Short: "Copy a stream between endpoints",
	Long: `Copy everything readable from src to dst through buffered streams.

The buffer size comes from --buffer-size, then the context, then 4096.
The result reports the bytes moved and how many read and write calls
reached each side.

Examples:
  streamio copy ./in.bin kv:backup
  streamio copy kv:backup s3://bucket/backups/in.bin
  cat in.bin | streamio copy - ws://localhost:8080/streams/in.bin`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcEP, err := parseEndpoint(args[0])
		if err != nil {
			return err
		}
		dstEP, err := parseEndpoint(args[1])
		if err != nil {
			return err
		}
		cfg, err := getContext()
		if err != nil {
			return err
		}
		e, err := newEnv(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		size := copyBufferSize
		if size <= 0 {
			size = e.bufferSize()
		}
		result, err := runCopy(cmd.Context(), e, srcEP, dstEP, size)
		if err != nil {
			return err
		}

		// Keep stdout clean when it carries the copied bytes.
		var w io.Writer
		if dstEP.Kind == kindStdio {
			w = os.Stderr
		}
		return outputResult(result, w)
	},
}

func init() {
	copyCmd.Flags().IntVar(&copyBufferSize, "buffer-size", 0, "buffer size in bytes")
}

// copyResult is the outcome of a copy.
type copyResult struct {
	Source     string       `json:"source" yaml:"source"`
	Dest       string       `json:"dest" yaml:"dest"`
	Bytes      int64        `json:"bytes" yaml:"bytes"`
	Size       string       `json:"size" yaml:"size"`
	BufferSize int          `json:"buffer_size" yaml:"buffer_size"`
	Reads      stream.Stats `json:"reads" yaml:"reads"`
	Writes     stream.Stats `json:"writes" yaml:"writes"`
	Elapsed    string       `json:"elapsed" yaml:"elapsed"`
}

// runCopy opens both endpoints, copies src to dst and closes them. When the
// copy fails the destination is aborted, so stored backends keep whatever
// they held before.
func runCopy(ctx context.Context, e *env, srcEP, dstEP endpoint, size int) (*copyResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := e.openSource(ctx, srcEP)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", srcEP, err)
	}
	defer src.Close()

	dst, err := e.openSink(ctx, dstEP)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", dstEP, err)
	}

	slog.Debug("copy started", "src", srcEP.String(), "dst", dstEP.String(), "buffer_size", size)
	start := time.Now()
	cs := stream.Counted(src)
	cd := stream.CountedSink(dst)
	n, err := stream.Copy(cd, cs, size)
	if err != nil {
		if aerr := stream.Abort(dst); aerr != nil {
			slog.Warn("abort destination", "dst", dstEP.String(), "error", aerr)
			cli.PrintWarning("%s may hold a partial copy: %v", dstEP, aerr)
		}
		return nil, fmt.Errorf("copy %s to %s: %w", srcEP, dstEP, err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("copy %s to %s: %w", srcEP, dstEP, err)
	}
	elapsed := time.Since(start)

	slog.Debug("copy done", "bytes", n, "reads", cs.Stats().Calls, "writes", cd.Stats().Calls, "elapsed", elapsed)
	return &copyResult{
		Source:     srcEP.String(),
		Dest:       dstEP.String(),
		Bytes:      n,
		Size:       cli.FormatBytes(n),
		BufferSize: size,
		Reads:      cs.Stats(),
		Writes:     cd.Stats(),
		Elapsed:    cli.FormatDuration(elapsed),
	}, nil
}
