package main

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/redpen-dev/redpen/internal/config"
	"github.com/redpen-dev/redpen/internal/importer"
	"github.com/redpen-dev/redpen/internal/provider"
	"github.com/redpen-dev/redpen/internal/server"
	"github.com/redpen-dev/redpen/internal/store"
	"github.com/redpen-dev/redpen/internal/vectorindex"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the essay workbench HTTP server",
		Long: `Start the HTTP server backing the essay workbench UI.

Exposes correction, generation, dictionary, essay library, vocabulary
book, and dashboard statistics under /api. If a drafts directory is
configured, text files dropped there are imported as draft essays.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			addr, _ := cmd.Flags().GetString("listen")
			if addr == "" {
				addr = cfg.Listen
			}

			dataDir, err := store.EnsureDataDir()
			if err != nil {
				return err
			}
			dbPath := cfg.DBPath
			if dbPath == "" {
				if dbPath, err = store.DefaultDBPath(); err != nil {
					return err
				}
			}

			st, err := store.OpenSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer st.Close()

			index, err := vectorindex.NewTieredIndex(vectorindex.TieredConfig{
				HNSW: vectorindex.HNSWConfig{Dir: dataDir},
			})
			if err != nil {
				return fmt.Errorf("opening vector index: %w", err)
			}
			defer index.Close()

			ai := provider.NewHTTPClient(cfg.ProviderClientConfig())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.DraftsDir != "" {
				im, err := importer.New(cfg.DraftsDir, st)
				if err != nil {
					return fmt.Errorf("starting drafts importer: %w", err)
				}
				go func() {
					if err := im.Run(ctx); err != nil && ctx.Err() == nil {
						log.Printf("[ERROR] drafts importer: %v", err)
					}
				}()
			}

			return server.NewServer(st, ai, index, addr).Start(ctx)
		},
	}

	cmd.Flags().String("listen", "", "Listen address (overrides config)")
	return cmd
}

// loadConfig resolves the --config flag, falling back to the default path.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	return config.Load(path)
}
