package config

import (
	"log/slog"

	"github.com/siren-lab/siren/pkg/domain/interfaces"
	"github.com/siren-lab/siren/pkg/service/notify"
	"github.com/siren-lab/siren/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Notify struct {
	baseURL string
	login   string
	apiKey  string
	sender  string
}

func (x *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notify-base-url",
			Usage:       "SMS gateway base URL",
			Category:    "Notify",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("SIREN_NOTIFY_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "notify-login",
			Usage:       "SMS gateway login",
			Category:    "Notify",
			Destination: &x.login,
			Sources:     cli.EnvVars("SIREN_NOTIFY_LOGIN"),
		},
		&cli.StringFlag{
			Name:        "notify-api-key",
			Usage:       "SMS gateway API key",
			Category:    "Notify",
			Destination: &x.apiKey,
			Sources:     cli.EnvVars("SIREN_NOTIFY_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "notify-sender",
			Usage:       "Sender name shown on SMS messages",
			Category:    "Notify",
			Destination: &x.sender,
			Sources:     cli.EnvVars("SIREN_NOTIFY_SENDER"),
		},
	}
}

func (x Notify) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base-url", x.baseURL),
		slog.String("login", x.login),
		slog.Int("api-key.len", len(x.apiKey)),
		slog.String("sender", x.sender),
	)
}

// Configure builds the notification gateway client. Without a base URL
// the console client is returned so escalations are visible in logs,
// which is only useful for local development.
func (x *Notify) Configure() (interfaces.NotifyClient, error) {
	if x.baseURL == "" {
		logging.Default().Warn("SMS gateway is not configured, escalations will only be logged")
		return notify.NewConsole(), nil
	}

	var opts []notify.Option
	if x.sender != "" {
		opts = append(opts, notify.WithSender(x.sender))
	}

	return notify.New(x.baseURL, x.login, x.apiKey, opts...)
}
