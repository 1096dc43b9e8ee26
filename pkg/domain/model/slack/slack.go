package slack

import (
	"strings"
)

// MessageRef identifies a single message in a channel. Slack uses the
// message timestamp as the message identifier.
type MessageRef struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

func (x MessageRef) IsValid() bool {
	return x.ChannelID != "" && x.MessageID != ""
}

// URL returns the Slack message URL
// Format: https://slack.com/archives/{channelID}/p{timestamp}
func (x MessageRef) URL() string {
	if !x.IsValid() {
		return ""
	}

	// Convert timestamp format: "1234567890.123456" -> "1234567890123456"
	ts := strings.ReplaceAll(x.MessageID, ".", "")

	return "https://slack.com/archives/" + x.ChannelID + "/p" + ts
}

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DisplayName returns the mentionable representation of the user for
// message text.
func (x User) DisplayName() string {
	if x.Name != "" {
		return x.Name
	}
	return "<@" + x.ID + ">"
}
