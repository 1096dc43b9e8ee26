package config

import (
	"log/slog"
	"time"

	"github.com/siren-lab/siren/pkg/domain/interfaces"
	"github.com/siren-lab/siren/pkg/service/escalation"
	"github.com/urfave/cli/v3"
)

type Escalation struct {
	tier1Delay time.Duration
	tier2Delay time.Duration
	retention  time.Duration
}

func (x *Escalation) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "escalation-tier1-delay",
			Usage:       "Delay before the SMS escalation of an unaccepted alert",
			Category:    "Escalation",
			Value:       escalation.DefaultTier1Delay,
			Destination: &x.tier1Delay,
			Sources:     cli.EnvVars("SIREN_ESCALATION_TIER1_DELAY"),
		},
		&cli.DurationFlag{
			Name:        "escalation-tier2-delay",
			Usage:       "Delay before the voice call escalation of an unaccepted alert",
			Category:    "Escalation",
			Value:       escalation.DefaultTier2Delay,
			Destination: &x.tier2Delay,
			Sources:     cli.EnvVars("SIREN_ESCALATION_TIER2_DELAY"),
		},
		&cli.DurationFlag{
			Name:        "escalation-retention",
			Usage:       "How long a never-accepted alert stays registered after the voice call",
			Category:    "Escalation",
			Value:       escalation.DefaultRetention,
			Destination: &x.retention,
			Sources:     cli.EnvVars("SIREN_ESCALATION_RETENTION"),
		},
	}
}

func (x Escalation) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("tier1-delay", x.tier1Delay),
		slog.Duration("tier2-delay", x.tier2Delay),
		slog.Duration("retention", x.retention),
	)
}

func (x *Escalation) Configure(repo interfaces.Repository, roster interfaces.RosterClient, notify interfaces.NotifyClient) *escalation.Scheduler {
	return escalation.New(repo, roster, notify,
		escalation.WithTier1Delay(x.tier1Delay),
		escalation.WithTier2Delay(x.tier2Delay),
		escalation.WithRetention(x.retention),
	)
}
