package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cthoyt/sssom-go/database"
	"github.com/cthoyt/sssom-go/internal/api"
	"github.com/cthoyt/sssom-go/internal/config"
	"github.com/cthoyt/sssom-go/internal/log"
)

func newServeCommand() *cobra.Command {
	cfg := config.FromEnv()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mapping curation API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.Configure(log.Config{Level: cfg.LogLevel})
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (empty for in-memory)")
	cmd.Flags().StringVar(&cfg.ImportPath, "import", cfg.ImportPath, "SSSOM file to load on startup")
	cmd.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload the imported file when it changes")
	cmd.Flags().IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "requests per client IP per minute, 0 to disable")
	return cmd
}

func serve(parent context.Context, cfg config.Server) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.WithComponent("serve")

	var repo database.Repository
	if cfg.DBPath != "" {
		sqlite, err := database.OpenSQLite(cfg.DBPath, database.DefaultSQLiteConfig())
		if err != nil {
			return err
		}
		repo = sqlite
		logger.Info().Str("db", cfg.DBPath).Msg("using sqlite store")
	} else {
		repo = database.NewMemory(nil)
		logger.Info().Msg("using in-memory store")
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error().Err(err).Msg("close repository")
		}
	}()

	if cfg.ImportPath != "" {
		if err := importFile(ctx, repo, cfg.ImportPath); err != nil {
			return err
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return api.NewServer(repo, cfg).ListenAndServe(ctx)
	})
	if cfg.Watch && cfg.ImportPath != "" {
		group.Go(func() error {
			return watchImport(ctx, repo, cfg.ImportPath)
		})
	}
	return group.Wait()
}

func importFile(ctx context.Context, repo database.Repository, path string) error {
	n, _, err := database.ImportFile(ctx, repo, path, nil)
	if err != nil {
		return err
	}
	logger := log.WithComponent("serve")
	logger.Info().Str("path", path).Int("mappings", n).Msg("imported")
	return nil
}

// watchImport re-imports the seed file whenever it is rewritten. The
// watch sits on the parent directory because editors and atomic writers
// replace the file by rename, which would orphan a watch on the file
// itself. Since records are content addressed, a re-import only adds
// rows that changed.
func watchImport(ctx context.Context, repo database.Repository, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	logger := log.WithComponent("watch")
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := importFile(ctx, repo, path); err != nil {
				logger.Error().Err(err).Str("path", path).Msg("reload failed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watcher error")
		}
	}
}
