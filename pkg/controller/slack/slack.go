package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/siren-lab/siren/pkg/domain/interfaces"
	"github.com/siren-lab/siren/pkg/domain/model/errs"
	slack_model "github.com/siren-lab/siren/pkg/domain/model/slack"
	slackService "github.com/siren-lab/siren/pkg/service/slack"
	"github.com/siren-lab/siren/pkg/utils/async"
	"github.com/siren-lab/siren/pkg/utils/logging"
	"github.com/siren-lab/siren/pkg/utils/user"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// dispatch runs the handler in a background goroutine so the HTTP
// response to Slack returns within its 3 second deadline. Escalation
// timers armed by the handler survive the request context.
func dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	if IsSync(ctx) {
		newCtx := async.NewBackgroundContext(ctx)
		if err := handler(newCtx); err != nil {
			errs.Handle(newCtx, err)
		}
		return
	}

	async.Dispatch(ctx, handler)
}

type Controller struct {
	usecase      interfaces.EscalationUsecases
	slackService *slackService.Service
}

func New(uc interfaces.EscalationUsecases, svc *slackService.Service) *Controller {
	return &Controller{
		usecase:      uc,
		slackService: svc,
	}
}

// HandleSlackAppMention raises an alert for the mentioning message.
// The channel name becomes the alert label so duty officers can tell
// which room is asking for help.
func (x *Controller) HandleSlackAppMention(ctx context.Context, event *slackevents.AppMentionEvent) error {
	logger := logging.From(ctx).With("event_ts", event.EventTimeStamp)
	ctx = logging.With(ctx, logger)
	ctx = user.WithUserID(ctx, event.User)

	// The bot's own messages must not raise alerts.
	if x.slackService.IsBotUser(event.User) {
		return nil
	}

	origin := slack_model.MessageRef{
		ChannelID: event.Channel,
		MessageID: event.TimeStamp,
	}

	dispatch(ctx, func(ctx context.Context) error {
		label := x.slackService.ChannelName(ctx, event.Channel)
		_, err := x.usecase.RaiseAlert(ctx, label, origin)
		return err
	})

	return nil
}

// HandleSlackInteraction routes block actions. Only the Accept button
// is known; anything else is logged and dropped.
func (x *Controller) HandleSlackInteraction(ctx context.Context, interaction slack.InteractionCallback) error {
	logger := logging.From(ctx).With("interaction_type", interaction.Type)
	ctx = logging.With(ctx, logger)
	ctx = user.WithUserID(ctx, interaction.User.ID)

	if interaction.Type != slack.InteractionTypeBlockActions {
		return nil
	}

	actionUser := slack_model.User{
		ID:   interaction.User.ID,
		Name: interaction.User.Name,
	}

	dispatch(ctx, func(ctx context.Context) error {
		for _, action := range interaction.ActionCallback.BlockActions {
			switch slack_model.ActionID(action.ActionID) {
			case slack_model.ActionIDAcceptAlert:
				payload, err := slack_model.DecodeActionPayload(action.Value)
				if err != nil {
					return goerr.Wrap(err, "failed to decode accept action",
						goerr.V("value", action.Value))
				}
				return x.usecase.AcceptAlert(ctx, payload.AlertID, actionUser, payload.Label)

			default:
				logging.From(ctx).Warn("unknown block action, ignoring",
					"action_id", action.ActionID)
			}
		}
		return nil
	})

	return nil
}
