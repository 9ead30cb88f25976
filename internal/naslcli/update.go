package naslcli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nasl-runtime/naslrun/internal/naslconfig"
	"github.com/nasl-runtime/naslrun/internal/naslfeed"
	"github.com/nasl-runtime/naslrun/internal/nasllog"
	"github.com/nasl-runtime/naslrun/internal/naslstdlib"
	"github.com/nasl-runtime/naslrun/internal/naslstorage"
)

// NewUpdateCommand runs the feed-update pipeline to completion,
// printing colorized per-script progress.
func NewUpdateCommand() *cobra.Command {
	var publicKey string

	cmd := &cobra.Command{
		Use:   "update <feed-root>",
		Short: "Run the feed updater over a plugin feed",
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
			update, err := naslfeed.NewFromRoot(root, loader, store, logger, naslstdlib.Default(), verifier, cfg.OpenVASVersion, cfg.MaxRetries)
			if err != nil {
				return fmt.Errorf("build updater: %w", err)
			}

			total := update.Len()
			done := 0
			for {
				result, ok := update.Next()
				if !ok {
					break
				}
				if result.Path == naslfeed.FeedInfoFile {
					if result.Err != nil {
						color.Red("feed version publish failed: %v", result.Err)
						return result.Err
					}
					color.Green("feed version published")
					continue
				}
				done++
				if result.Err != nil {
					color.Red("[%d/%d] %s: %v", done, total, result.Path, result.Err)
					continue
				}
				color.Green("[%d/%d] %s (exit %d)", done, total, result.Path, result.ExitCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&publicKey, "public-key", "", "hex-encoded ed25519 public key verifying the feed's integrity file")
	return cmd
}
