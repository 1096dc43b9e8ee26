package interfaces

import (
	"context"
)

// RosterClient resolves the duty contacts that receive escalation
// notifications. An empty result is valid: it means nobody is on call
// and tier actions become no-ops.
type RosterClient interface {
	ListOnCallContacts(ctx context.Context) ([]string, error)
}

// NotifyClient dispatches out-of-band notifications to duty contacts.
// Implementations are best-effort per contact: an individual delivery
// failure is logged and must not abort the remaining contacts.
type NotifyClient interface {
	SendText(ctx context.Context, contacts []string, message string) error
	PlaceVoiceCall(ctx context.Context, contacts []string, message string) error
}
