package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alexwilliam112/issue-tracker/pkg/cli/config"
	controller "github.com/Alexwilliam112/issue-tracker/pkg/controller/http"
	"github.com/Alexwilliam112/issue-tracker/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		storeCfg  config.Storage
		masterCfg config.MasterData
	)

	flags := joinFlags(
		serverCfg.Flags(),
		storeCfg.Flags(),
		masterCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting issue-tracker server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("storage", storeCfg),
				slog.Any("master_data", masterCfg),
			)

			repo, err := storeCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			master, err := masterCfg.Configure()
			if err != nil {
				return err
			}

			issuesUC := usecase.NewIssues(repo, master)

			server := controller.NewServer(ctx, serverCfg.Addr, issuesUC, master)

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
