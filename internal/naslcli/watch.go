package naslcli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nasl-runtime/naslrun/internal/naslconfig"
	"github.com/nasl-runtime/naslrun/internal/naslfeed"
	"github.com/nasl-runtime/naslrun/internal/nasllog"
	"github.com/nasl-runtime/naslrun/internal/naslstdlib"
	"github.com/nasl-runtime/naslrun/internal/naslstorage"
	"github.com/nasl-runtime/naslrun/internal/naslwatch"
)

// NewWatchCommand watches a feed directory and re-runs the updater
// incrementally for changed .nasl files only, mirroring the teacher's
// internal/watch file-watcher generalized from "recompile on save" to
// "re-describe on save".
func NewWatchCommand() *cobra.Command {
	var publicKey string

	cmd := &cobra.Command{
		Use:   "watch <feed-root>",
		Short: "Watch a plugin feed and re-run the updater on change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]

			cfg, err := naslconfig.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := nasllog.NewDevelopment()
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			store, closeStore, err := openStorage(cfg.Storage)
			if err != nil {
				return err
			}
			defer closeStore()

			verifier, err := resolveVerifier(publicKey)
			if err != nil {
				return fmt.Errorf("build verifier: %w", err)
			}

			loader := naslstorage.NewFileLoader(root)
			functions := naslstdlib.Default()

			runUpdate := func(paths []string) error {
				update := naslfeed.New(root, paths, loader, store, logger, functions, verifier, cfg.OpenVASVersion, cfg.MaxRetries)
				for {
					result, ok := update.Next()
					if !ok {
						break
					}
					if result.Err != nil {
						color.Red("%s: %v", result.Path, result.Err)
						continue
					}
					color.Green("%s", result.Path)
				}
				return nil
			}

			watcher, err := naslwatch.New(root, cfg.Watch.Debounce, runUpdate, logger)
			if err != nil {
				return fmt.Errorf("build watcher: %w", err)
			}

			if err := watcher.Start(); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer watcher.Stop()

			color.Cyan("watching %s for changes (ctrl-c to stop)", root)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			return nil
		},
	}

	cmd.Flags().StringVar(&publicKey, "public-key", "", "hex-encoded ed25519 public key verifying the feed's integrity file")
	return cmd
}
