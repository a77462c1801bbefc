package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	server "github.com/jscott-dev/meetmebot/pkg/controller/http"
	"github.com/jscott-dev/meetmebot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		cfg        config
		addr       string
		configFile string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Address to listen on",
			Value:       "127.0.0.1:8080",
			Sources:     cli.EnvVars("MEETMEBOT_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML config file",
			Sources:     cli.EnvVars("MEETMEBOT_CONFIG"),
			Destination: &configFile,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, knowledgeFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the portfolio chat HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogger()

			if configFile != "" {
				if err := cfg.applyFile(configFile); err != nil {
					return err
				}
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			chatUC, _, err := cfg.newChatUseCase(ctx, repo)
			if err != nil {
				return err
			}

			srv := server.New(chatUC, cfg.newPortfolioUseCase(repo))

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("starting HTTP server", "addr", addr)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "HTTP server failed")
				}
			case <-ctx.Done():
				logging.Default().Info("shutting down HTTP server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shut down HTTP server")
				}
			}

			return nil
		},
	}
}
