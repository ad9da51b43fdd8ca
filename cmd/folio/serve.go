package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

var (
	watchContent bool
	addr         string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site and reload content on change",
	Long: `serve starts the HTTP server. Posts are read from the content
directory on demand; with --watch the post index is refreshed as soon as
files change instead of waiting for the cache TTL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()
		if addr != "" {
			app.Config.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watchContent {
			w, err := folio.WatchContent(app.Config.ContentDir, 300*time.Millisecond, app.Cache.Invalidate, app.Echo.Logger)
			if err != nil {
				return err
			}
			defer w.Close()
		}

		errc := make(chan error, 1)
		go func() { errc <- app.Start(ctx) }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		app.Echo.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&watchContent, "watch", true, "refresh the post index when content changes")
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
}
