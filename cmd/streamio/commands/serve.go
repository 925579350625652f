package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/streamio/pkg/storage"
	"github.com/haivivi/streamio/pkg/stream"
	"github.com/haivivi/streamio/pkg/wsstream"
)

const defaultServeAddr = ":8080"

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve local files over websocket streams",
	Long: `Serve the context's local root over websockets.

  GET /streams/<path>              streams the file to the client
  GET /streams/<path>?mode=upload  writes the client's stream to the file

Each Write of the peer is one binary message. A normal close frame ends
the stream; a failed transfer closes with an error frame.

Examples:
  streamio serve --addr :9000
  streamio copy ws://localhost:9000/streams/video.mp4 ./video.mp4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getContext()
		if err != nil {
			return err
		}
		e, err := newEnv(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server
		}
		if addr == "" {
			addr = defaultServeAddr
		}
		store, err := storage.NewLocal(e.localRoot())
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           newStreamHandler(store, e.bufferSize()),
			ReadHeaderTimeout: 10 * time.Second,
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("server shutdown", "error", err)
			}
		}()

		slog.Info("serving streams", "addr", addr, "root", store.Root(), "buffer_size", e.bufferSize())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: context server or :8080)")
}

// streamHandler moves files of a FileStore over websocket connections.
type streamHandler struct {
	store      storage.FileStore
	bufferSize int
}

func newStreamHandler(store storage.FileStore, bufferSize int) http.Handler {
	h := &streamHandler{store: store, bufferSize: bufferSize}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /streams/{path...}", h.serveStream)
	return mux
}

func (h *streamHandler) serveStream(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	mode := r.URL.Query().Get("mode")
	log := slog.With("path", path, "remote", r.RemoteAddr)

	switch mode {
	case "", "download":
		ok, err := h.store.Exists(r.Context(), path)
		if errors.Is(err, storage.ErrInvalidPath) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
	case "upload":
		if path == "" {
			http.Error(w, "path is required", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "unknown mode "+mode, http.StatusBadRequest)
		return
	}

	conn, err := wsstream.Upgrade(w, r)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	ctx := context.WithoutCancel(r.Context())

	start := time.Now()
	var n int64
	if mode == "upload" {
		n, err = h.upload(ctx, conn, path)
	} else {
		n, err = h.download(ctx, conn, path)
	}
	if err != nil {
		log.Error("stream failed", "mode", modeName(mode), "bytes", n, "error", err)
		conn.CloseWithError(err.Error())
		return
	}
	conn.Close()
	log.Info("stream done", "mode", modeName(mode), "bytes", n, "elapsed", time.Since(start))
}

func (h *streamHandler) download(ctx context.Context, conn *wsstream.Conn, path string) (int64, error) {
	src, err := h.store.Open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	return stream.Copy(conn, src, h.bufferSize)
}

func (h *streamHandler) upload(ctx context.Context, conn *wsstream.Conn, path string) (int64, error) {
	dst, err := h.store.Create(ctx, path)
	if err != nil {
		return 0, err
	}
	n, err := stream.Copy(dst, conn, h.bufferSize)
	if err != nil {
		if aerr := stream.Abort(dst); aerr != nil {
			slog.Warn("abort upload", "path", path, "error", aerr)
		}
		return n, err
	}
	return n, dst.Close()
}

func modeName(mode string) string {
	if mode == "" {
		return "download"
	}
	return mode
}
