package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/siren-lab/siren/pkg/domain/interfaces"
	"github.com/siren-lab/siren/pkg/domain/model/alert"
	"github.com/siren-lab/siren/pkg/domain/model/errs"
	model "github.com/siren-lab/siren/pkg/domain/model/slack"

	"github.com/slack-go/slack"
)

// Service wraps the Slack API as the chat gateway: posting broadcast
// alerts with an Accept action, editing them on acceptance and
// replying into origin threads.
type Service struct {
	channelID string
	client    interfaces.SlackClient

	teamID string
	botID  string
	userID string
}

func New(client interfaces.SlackClient, channelID string) (*Service, error) {
	if channelID == "" {
		return nil, goerr.New("broadcast channel ID is not set")
	}

	s := &Service{
		channelID: channelID,
		client:    client,
	}

	authTest, err := s.client.AuthTest()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to auth test of slack")
	}

	s.userID = authTest.UserID
	s.teamID = authTest.TeamID
	s.botID = authTest.BotID

	return s, nil
}

func (x *Service) IsBotUser(userID string) bool {
	return x.userID == userID
}

func (x *Service) BotID() string {
	return x.botID
}

func (x *Service) BroadcastChannelID() string {
	return x.channelID
}

// PostAlert posts the alert to the broadcast channel with the Accept
// button attached and returns the reference of the posted message.
func (x *Service) PostAlert(ctx context.Context, a *alert.Alert) (*model.MessageRef, error) {
	blocks, err := buildAlertBlocks(a)
	if err != nil {
		return nil, err
	}

	channelID, ts, err := x.client.PostMessageContext(ctx, x.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(alertFallbackText(a), false),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to post alert to broadcast channel",
			goerr.T(errs.TagSlackError),
			goerr.V("channel_id", x.channelID),
			goerr.V("alert_id", a.ID))
	}

	return &model.MessageRef{ChannelID: channelID, MessageID: ts}, nil
}

// MarkAlertAccepted edits the broadcast message in place to show who
// is handling the alert. The Accept button is dropped with the edit.
func (x *Service) MarkAlertAccepted(ctx context.Context, a *alert.Alert, user model.User) error {
	if !a.Broadcast.IsValid() {
		return goerr.New("alert has no broadcast message",
			goerr.V("alert_id", a.ID))
	}

	blocks := buildAcceptedBlocks(a, user)

	if _, _, _, err := x.client.UpdateMessageContext(ctx, a.Broadcast.ChannelID, a.Broadcast.MessageID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(acceptedFallbackText(a, user), false),
	); err != nil {
		return goerr.Wrap(err, "failed to update broadcast message",
			goerr.T(errs.TagSlackError),
			goerr.V("alert_id", a.ID),
			goerr.V("broadcast", a.Broadcast))
	}

	return nil
}

// ReplyTo posts text into the channel of ref, threaded on the message
// of ref.
func (x *Service) ReplyTo(ctx context.Context, ref model.MessageRef, text string) error {
	if !ref.IsValid() {
		return goerr.New("invalid reply target", goerr.V("ref", ref))
	}

	if _, _, err := x.client.PostMessageContext(ctx, ref.ChannelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(ref.MessageID),
	); err != nil {
		return goerr.Wrap(err, "failed to post threaded reply",
			goerr.T(errs.TagSlackError),
			goerr.V("ref", ref))
	}

	return nil
}

// ChannelName resolves the human-readable name of a channel, used as
// the alert label when raising from a chat event. Falls back to the
// channel ID on lookup failure.
func (x *Service) ChannelName(ctx context.Context, channelID string) string {
	ch, err := x.client.GetConversationInfo(&slack.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil || ch == nil || ch.Name == "" {
		return channelID
	}
	return ch.Name
}
