package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	model "github.com/siren-lab/siren/pkg/domain/model/slack"
	"github.com/siren-lab/siren/pkg/service/slack"
	"github.com/urfave/cli/v3"

	sdk "github.com/slack-go/slack"
)

type Slack struct {
	oauthToken    string
	signingSecret string
	channelID     string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token",
			Category:    "Slack",
			Destination: &x.oauthToken,
			Sources:     cli.EnvVars("SIREN_SLACK_OAUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack signing secret",
			Category:    "Slack",
			Destination: &x.signingSecret,
			Sources:     cli.EnvVars("SIREN_SLACK_SIGNING_SECRET"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID of the broadcast (escalation) channel",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("SIREN_SLACK_CHANNEL_ID"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("oauth-token.len", len(x.oauthToken)),
		slog.Int("signing-secret.len", len(x.signingSecret)),
		slog.String("channel-id", x.channelID),
	)
}

func (x *Slack) Configure() (*slack.Service, error) {
	if x.oauthToken == "" {
		return nil, goerr.New("slack oauth token is not set")
	}

	client := sdk.New(x.oauthToken)

	return slack.New(client, x.channelID)
}

func (x *Slack) Verifier() model.PayloadVerifier {
	if x.signingSecret == "" {
		return nil
	}

	return model.NewPayloadVerifier(x.signingSecret)
}
