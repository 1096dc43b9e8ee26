package interfaces

import (
	"context"

	"github.com/slack-go/slack"
)

type SlackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
	AuthTest() (*slack.AuthTestResponse, error)
	GetConversationInfo(input *slack.GetConversationInfoInput) (*slack.Channel, error)
}
