package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/banux/manga-server/internal/cache"
	"github.com/banux/manga-server/internal/config"
	"github.com/banux/manga-server/internal/loader"
	"github.com/banux/manga-server/internal/server"
)

const usage = `manga-server <port> [path]

Serves a filesystem-resident manga/comic library over HTTP.

  <port>   TCP port to listen on (required)
  [path]   library root directory (default: current directory)

  -h, --help   print this message and exit
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	for _, a := range args {
		if a == "-h" || a == "--help" {
			fmt.Fprint(os.Stdout, usage)
			return nil
		}
	}
	if len(args) < 1 {
		return errors.New("missing required argument <port>")
	}
	if len(args) > 2 {
		return fmt.Errorf("unexpected argument %q", args[2])
	}
	port, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", args[0], err)
	}
	root := "."
	if len(args) == 2 {
		root = args[1]
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve library path: %w", err)
	}

	warnf := newWarnf(isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))

	cfgPath := config.FindConfigFile()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if cfgPath != "" {
		log.Printf("loaded configuration from %q", cfgPath)
	}

	opts := loader.Options{
		Concurrency:              cfg.WalkConcurrency,
		GzipThreshold:            cfg.GzipThresholdBytes,
		DisableFileTypeInference: !cfg.InferFileTypes,
		Warnf:                    warnf,
	}
	if cfg.CacheEnabled {
		idx, err := cache.Open(filepath.Join(root, ".manga-cache.db"))
		if err != nil {
			warnf("archive index cache unavailable, continuing without it: %v", err)
		} else {
			defer idx.Close()
			opts.Cache = idx
		}
	}

	st, err := loader.Load(context.Background(), root, opts)
	if err != nil {
		return fmt.Errorf("load library: %w", err)
	}

	srv := server.New(st)
	addr := net.JoinHostPort("::", strconv.FormatUint(port, 10))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}

	httpServer := &http.Server{Handler: srv}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(ln) }()

	log.Printf("manga-server listening on port %d, serving %q", port, root)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-sigCtx.Done():
		log.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	}
}

// newWarnf builds the warning logger used throughout loading: on a tty,
// warnings are left unprefixed (the timestamp already sets them apart
// visually); piped to a file or a service manager, they get a "warning: "
// tag so log consumers can grep for them.
func newWarnf(tty bool) func(string, ...interface{}) {
	if tty {
		return log.Printf
	}
	return func(format string, args ...interface{}) {
		log.Printf("warning: "+format, args...)
	}
}
