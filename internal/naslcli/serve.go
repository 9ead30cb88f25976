package naslcli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nasl-runtime/naslrun/internal/naslconfig"
	"github.com/nasl-runtime/naslrun/internal/nasladmin"
	"github.com/nasl-runtime/naslrun/internal/naslfeed"
	"github.com/nasl-runtime/naslrun/internal/nasllog"
	"github.com/nasl-runtime/naslrun/internal/naslstdlib"
	"github.com/nasl-runtime/naslrun/internal/naslstorage"
)

// NewServeCommand starts the admin HTTP server: status, trigger-update,
// trigger-transpile, and a live progress websocket.
func NewServeCommand() *cobra.Command {
	var feedRoot, publicKey string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := naslconfig.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if feedRoot == "" {
				feedRoot = cfg.FeedRoot
			}
			if feedRoot == "" {
				return fmt.Errorf("--feed-root is required (or set feed_root in naslrun.yaml)")
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

			loader := naslstorage.NewFileLoader(feedRoot)
			functions := naslstdlib.Default()

			auth := nasladmin.NewAuthService(cfg.Admin.JWTSignKey, 24*time.Hour)
			newFeed := func() (*naslfeed.Update, error) {
				return naslfeed.NewFromRoot(feedRoot, loader, store, logger, functions, verifier, cfg.OpenVASVersion, cfg.MaxRetries)
			}
			version := func() (string, error) {
				return naslfeed.FeedVersion(loader, store, functions, logger)
			}

			server := nasladmin.NewServer(auth, newFeed, version, logger)

			color.Cyan("admin server listening on %s", cfg.Admin.BindAddr)
			return http.ListenAndServe(cfg.Admin.BindAddr, server)
		},
	}

	cmd.Flags().StringVar(&feedRoot, "feed-root", "", "feed directory to operate on (overrides feed_root in config)")
	cmd.Flags().StringVar(&publicKey, "public-key", "", "hex-encoded ed25519 public key verifying the feed's integrity file")
	return cmd
}
