package config

import (
	"context"
	"log/slog"

	"github.com/siren-lab/siren/pkg/service/roster"
	"github.com/urfave/cli/v3"
)

type Roster struct {
	dbPath string
}

func (x *Roster) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "roster-db",
			Usage:       "Path of the duty roster SQLite database",
			Category:    "Roster",
			Value:       "siren.db",
			Destination: &x.dbPath,
			Sources:     cli.EnvVars("SIREN_ROSTER_DB"),
		},
	}
}

func (x Roster) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("db-path", x.dbPath),
	)
}

func (x *Roster) Configure(ctx context.Context) (*roster.Service, error) {
	return roster.New(ctx, x.dbPath)
}
