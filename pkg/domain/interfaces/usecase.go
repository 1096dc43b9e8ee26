package interfaces

import (
	"context"

	"github.com/siren-lab/siren/pkg/domain/model/alert"
	"github.com/siren-lab/siren/pkg/domain/model/slack"
	"github.com/siren-lab/siren/pkg/domain/types"
)

// EscalationUsecases is the surface consumed by the chat-facing
// controllers.
type EscalationUsecases interface {
	// RaiseAlert posts a broadcast alert with an Accept action,
	// registers it and arms both escalation timers.
	RaiseAlert(ctx context.Context, label string, origin slack.MessageRef) (*alert.Alert, error)

	// AcceptAlert marks the alert as handled, stops both timers, edits
	// the broadcast message and posts a threaded acknowledgment into
	// the origin chat. Unknown IDs are a soft no-op. Delivery failures
	// are logged internally and never propagate to the caller's event
	// loop.
	AcceptAlert(ctx context.Context, alertID types.AlertID, user slack.User, label string) error
}
