package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"prodid/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the identification HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.buildRuntime(false)
			if err != nil {
				return err
			}
			defer rt.close()

			lockPath := filepath.Join(rt.cfg.DataDir(), "prodid.lock")
			lock := flock.New(lockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock %s: %w", lockPath, err)
			}
			if !locked {
				return fmt.Errorf("another prodid server is already running (lock %s)", lockPath)
			}
			defer func() {
				_ = lock.Unlock()
			}()

			srv, err := server.New(rt.cfg, rt.service, rt.logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(runCtx); err != nil {
				return err
			}
			<-runCtx.Done()
			srv.Stop()
			return nil
		},
	}
}
