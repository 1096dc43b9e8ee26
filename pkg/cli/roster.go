package cli

import (
	"context"
	"fmt"

	"github.com/siren-lab/siren/pkg/cli/config"
	"github.com/siren-lab/siren/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdRoster() *cli.Command {
	var rosterCfg config.Roster

	return &cli.Command{
		Name:  "roster",
		Usage: "Manage the duty roster",
		Flags: rosterCfg.Flags(),
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a duty contact",
				ArgsUsage: "<name> <phone>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 2 {
						return cli.Exit("usage: siren roster add <name> <phone>", 1)
					}

					svc, err := rosterCfg.Configure(ctx)
					if err != nil {
						return err
					}
					defer svc.Close(ctx)

					name := cmd.Args().Get(0)
					phone := cmd.Args().Get(1)
					if err := svc.AddContact(ctx, name, phone); err != nil {
						return err
					}

					logging.From(ctx).Info("duty contact added", "name", name, "phone", phone)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List duty contacts",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, err := rosterCfg.Configure(ctx)
					if err != nil {
						return err
					}
					defer svc.Close(ctx)

					contacts, err := svc.ListContacts(ctx)
					if err != nil {
						return err
					}

					for _, c := range contacts {
						state := "active"
						if !c.Active {
							state = "inactive"
						}
						fmt.Printf("%d\t%s\t%s\t%s\n", c.ID, c.Name, c.PhoneNumber, state)
					}
					return nil
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a duty contact by phone number",
				ArgsUsage: "<phone>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return cli.Exit("usage: siren roster remove <phone>", 1)
					}

					svc, err := rosterCfg.Configure(ctx)
					if err != nil {
						return err
					}
					defer svc.Close(ctx)

					phone := cmd.Args().Get(0)
					if err := svc.RemoveContact(ctx, phone); err != nil {
						return err
					}

					logging.From(ctx).Info("duty contact removed", "phone", phone)
					return nil
				},
			},
		},
	}
}
