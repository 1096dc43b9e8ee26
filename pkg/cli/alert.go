package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/siren-lab/siren/pkg/cli/config"
	"github.com/siren-lab/siren/pkg/domain/model/slack"
	"github.com/siren-lab/siren/pkg/repository/memory"
	"github.com/siren-lab/siren/pkg/usecase"
	"github.com/siren-lab/siren/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// cmdAlert raises a test alert and keeps the process alive until both
// escalation tiers have had their chance to fire, so the whole path
// from broadcast to SMS and voice call can be verified end to end.
func cmdAlert() *cli.Command {
	var (
		label         string
		sentryCfg     config.Sentry
		slackCfg      config.Slack
		notifyCfg     config.Notify
		rosterCfg     config.Roster
		escalationCfg config.Escalation
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "label",
				Usage:       "Label of the test alert",
				Value:       "test-alert",
				Destination: &label,
				Sources:     cli.EnvVars("SIREN_ALERT_LABEL"),
			},
		},
		sentryCfg.Flags(),
		slackCfg.Flags(),
		notifyCfg.Flags(),
		rosterCfg.Flags(),
		escalationCfg.Flags(),
	)

	return &cli.Command{
		Name:  "alert",
		Usage: "Raise a test alert and wait for the escalation tiers",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
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

			a, err := uc.RaiseAlert(ctx, label, slack.MessageRef{})
			if err != nil {
				return err
			}

			wait := scheduler.Tier2Delay() + 10*time.Second
			logging.From(ctx).Info("test alert raised, waiting for escalation tiers",
				"alert_id", a.ID,
				"wait", wait,
			)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case <-time.After(wait):
			case <-sigCh:
			}
			return nil
		},
	}
}
