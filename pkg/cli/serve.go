package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/siren-lab/siren/pkg/cli/config"
	server "github.com/siren-lab/siren/pkg/controller/http"
	"github.com/siren-lab/siren/pkg/repository/memory"
	"github.com/siren-lab/siren/pkg/usecase"
	"github.com/siren-lab/siren/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		addr          string
		sentryCfg     config.Sentry
		slackCfg      config.Slack
		notifyCfg     config.Notify
		rosterCfg     config.Roster
		escalationCfg config.Escalation
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Aliases:     []string{"a"},
				Sources:     cli.EnvVars("SIREN_ADDR"),
				Usage:       "Listen address (default: 127.0.0.1:8080)",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
		},
		sentryCfg.Flags(),
		slackCfg.Flags(),
		notifyCfg.Flags(),
		rosterCfg.Flags(),
		escalationCfg.Flags(),
	)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run server",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logging.Default().Info("starting server",
				"addr", addr,
				"sentry", sentryCfg,
				"slack", slackCfg,
				"notify", notifyCfg,
				"roster", rosterCfg,
				"escalation", escalationCfg,
			)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return err
			}

			notifyClient, err := notifyCfg.Configure()
			if err != nil {
				return err
			}

			rosterSvc, err := rosterCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer rosterSvc.Close(ctx)

			repo := memory.New()
			scheduler := escalationCfg.Configure(repo, rosterSvc, notifyClient)

			uc := usecase.New(
				usecase.WithRepository(repo),
				usecase.WithSlackService(slackSvc),
				usecase.WithScheduler(scheduler),
			)

			httpServer := http.Server{
				Addr:              addr,
				Handler:           server.New(uc, slackSvc, server.WithSlackVerifier(slackCfg.Verifier())),
				ReadTimeout:       30 * time.Second,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(l net.Listener) context.Context {
					return ctx
				},
			}

			errCh := make(chan error, 1)
			go func() {
				defer close(errCh)
				if err := httpServer.ListenAndServe(); err != nil {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(ctx)
			}
		},
	}
}
