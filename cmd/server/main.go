package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"starbots/db/migrations"
	"starbots/internal/adapter/game/mock"
	httpadapter "starbots/internal/adapter/http"
	gormrepo "starbots/internal/adapter/repo/gorm"
	"starbots/internal/config"
	"starbots/internal/domain/bot"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		var cfgErr *bot.ConfigurationError
		if errors.As(err, &cfgErr) {
			hlog.Fatalf("refusing to start: %v", err)
		}
		hlog.Errorf("%v", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "starbots",
		Short:         "Autonomous bot scheduler for the strategy game",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newTickCommand(), newMigrateCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the tick loop and the ops HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			h := httpadapter.Handler{Ticks: a.Runner, KPI: a.KPI, AllowedOrigins: cfg.CORSOrigins}
			s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
			h.RegisterRoutes(s)

			go func() {
				if err := a.Runner.Run(ctx); err != nil {
					hlog.CtxErrorf(ctx, "tick loop stopped: %v", err)
				}
			}()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = s.Shutdown(shutdownCtx)
			}()

			hlog.Infof("starbots ops server listening on %s (store: %s)", cfg.HTTPAddr, a.StoreName)
			s.Spin()
			return nil
		},
	}
}

func newTickCommand() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Run ticks once and print their summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			for range count {
				summary, err := a.Runner.Trigger(cmd.Context())
				if err != nil {
					return err
				}
				out, err := sonic.ConfigStd.MarshalIndent(summary, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of ticks to run")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	var seed int
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations to the postgres store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.UsePostgres() {
				return &bot.ConfigurationError{Field: "db_dsn", Reason: "migrate needs " + config.EnvPrefix + "DB_DSN"}
			}
			db, err := gormrepo.OpenPostgres(cfg.DBDSN, gormrepo.PoolOptions{MaxOpenConns: 2})
			if err != nil {
				return err
			}
			var dir fs.FS = migrations.FS
			if cfg.MigrationsDir != "" {
				dir = os.DirFS(cfg.MigrationsDir)
			}
			if err := gormrepo.ApplyMigrations(cmd.Context(), db, dir); err != nil {
				return err
			}
			hlog.Infof("migrations applied")

			if seed > 0 {
				repo := gormrepo.NewAgentStateRepo(db)
				agents := mock.SeedWorld(mock.NewGame(), seed, time.Now())
				for _, agent := range agents {
					if err := repo.Save(cmd.Context(), agent, 0); err != nil {
						return fmt.Errorf("seed %s: %w", agent.ID, err)
					}
				}
				hlog.Infof("seeded %d demo agents", len(agents))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&seed, "seed", 0, "Insert this many demo agents after migrating")
	return cmd
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return cfg, err
	}
	hlog.SetLevel(level)
	return cfg, nil
}
