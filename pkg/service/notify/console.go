package notify

import (
	"context"

	"github.com/siren-lab/siren/pkg/domain/interfaces"
	"github.com/siren-lab/siren/pkg/utils/logging"
)

// Console is a NotifyClient that only logs. It backs dev mode and any
// deployment without an SMS gateway configured.
type Console struct{}

var _ interfaces.NotifyClient = &Console{}

func NewConsole() *Console {
	return &Console{}
}

func (x *Console) SendText(ctx context.Context, contacts []string, message string) error {
	logging.From(ctx).Info("[console] send SMS", "contacts", contacts, "message", message)
	return nil
}

func (x *Console) PlaceVoiceCall(ctx context.Context, contacts []string, message string) error {
	logging.From(ctx).Info("[console] place voice call", "contacts", contacts, "message", message)
	return nil
}
