package alert

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/siren-lab/siren/pkg/domain/model/slack"
	"github.com/siren-lab/siren/pkg/domain/types"
	"github.com/siren-lab/siren/pkg/utils/clock"
)

// Alert is one escalation instance. Unlike a persisted record it is a
// live entity: the registry, the dispatch loop and both escalation
// timers share the same pointer, so the acceptance flag and the cancel
// handle must be safe for concurrent access.
type Alert struct {
	ID    types.AlertID `json:"id"`
	Label string        `json:"label"`

	// Origin is the message that triggered the alert. The acceptance
	// acknowledgment is posted as a threaded reply to it.
	Origin slack.MessageRef `json:"origin"`

	// Broadcast is the alert message posted to the escalation channel.
	// It is edited in place when the alert is accepted.
	Broadcast slack.MessageRef `json:"broadcast"`

	CreatedAt time.Time `json:"created_at"`

	accepted atomic.Bool

	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

func New(ctx context.Context, label string, origin slack.MessageRef) *Alert {
	return &Alert{
		ID:        types.NewAlertID(),
		Label:     label,
		Origin:    origin,
		CreatedAt: clock.Now(ctx),
	}
}

// Accept marks the alert as handled. It returns true only for the
// first call; the transition happens exactly once per alert.
func (x *Alert) Accept() bool {
	return x.accepted.CompareAndSwap(false, true)
}

// Accepted reports whether the alert has been accepted. Escalation
// timers re-check this at expiry as a guard against the race between
// cancellation propagation and timer firing.
func (x *Alert) Accepted() bool {
	return x.accepted.Load()
}

// BindCancel attaches the cancellation handle shared by both
// escalation timers of this alert.
func (x *Alert) BindCancel(cancel context.CancelFunc) {
	x.cancelMu.Lock()
	defer x.cancelMu.Unlock()
	x.cancel = cancel
}

// Cancel stops both pending escalation timers. Safe to call multiple
// times and before BindCancel.
func (x *Alert) Cancel() {
	x.cancelMu.Lock()
	defer x.cancelMu.Unlock()
	if x.cancel != nil {
		x.cancel()
	}
}
