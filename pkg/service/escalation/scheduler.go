package escalation

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/m-mizutani/goerr/v2"
	"github.com/siren-lab/siren/pkg/domain/interfaces"
	"github.com/siren-lab/siren/pkg/domain/model/alert"
	"github.com/siren-lab/siren/pkg/domain/model/errs"
	"github.com/siren-lab/siren/pkg/domain/types"
	"github.com/siren-lab/siren/pkg/utils/async"
	"github.com/siren-lab/siren/pkg/utils/logging"
)

const (
	DefaultTier1Delay = 1 * time.Minute
	DefaultTier2Delay = 2 * time.Minute
	DefaultRetention  = 30 * time.Minute
)

// Scheduler runs the two unacknowledged-deadline actions of an alert:
// SMS after the first delay, voice call after the second. Both timers
// are armed at the same moment with independent absolute deadlines and
// share one cancellation signal. A never-accepted alert is dropped
// from the registry after a retention period past the second tier.
type Scheduler struct {
	repo   interfaces.Repository
	roster interfaces.RosterClient
	notify interfaces.NotifyClient

	tier1Delay time.Duration
	tier2Delay time.Duration
	retention  time.Duration
}

type Option func(*Scheduler)

func WithTier1Delay(d time.Duration) Option {
	return func(s *Scheduler) {
		s.tier1Delay = d
	}
}

func WithTier2Delay(d time.Duration) Option {
	return func(s *Scheduler) {
		s.tier2Delay = d
	}
}

// WithRetention sets how long a never-accepted alert stays in the
// registry after the second tier has fired. Zero disables the sweep.
func WithRetention(d time.Duration) Option {
	return func(s *Scheduler) {
		s.retention = d
	}
}

func New(repo interfaces.Repository, roster interfaces.RosterClient, notify interfaces.NotifyClient, opts ...Option) *Scheduler {
	s := &Scheduler{
		repo:       repo,
		roster:     roster,
		notify:     notify,
		tier1Delay: DefaultTier1Delay,
		tier2Delay: DefaultTier2Delay,
		retention:  DefaultRetention,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (x *Scheduler) Tier1Delay() time.Duration { return x.tier1Delay }
func (x *Scheduler) Tier2Delay() time.Duration { return x.tier2Delay }

// Arm starts both escalation timers for the alert and binds their
// shared cancellation handle to it. The timers run on a context
// detached from the caller's: an inbound request finishing must not
// tear down a pending escalation.
func (x *Scheduler) Arm(ctx context.Context, a *alert.Alert) {
	base := async.NewBackgroundContext(ctx)
	timerCtx, cancel := context.WithCancel(base)
	a.BindCancel(cancel)

	x.armTier(timerCtx, a, types.TierSMS, x.tier1Delay)
	x.armTier(timerCtx, a, types.TierCall, x.tier2Delay)

	if x.retention > 0 {
		x.armRetention(timerCtx, a)
	}
}

func (x *Scheduler) armTier(ctx context.Context, a *alert.Alert, tier types.EscalationTier, delay time.Duration) {
	logger := logging.From(ctx).With("alert_id", a.ID, "tier", tier)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errs.Handle(ctx, goerr.New("panic in escalation timer",
					goerr.V("recover", r),
					goerr.V("stack", string(debug.Stack())),
					goerr.V("alert_id", a.ID),
					goerr.V("tier", tier)))
			}
		}()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			// Expected outcome when the alert is accepted in time.
			logger.Info("escalation timer cancelled")
			tierCancelledCounter(tier).Inc()
			return
		case <-timer.C:
		}

		// Secondary guard: acceptance may have happened between the
		// timer expiring and the cancellation signal being observed.
		if a.Accepted() {
			logger.Info("alert already accepted, skipping escalation")
			tierCancelledCounter(tier).Inc()
			return
		}

		// A failure here stays inside this tier. The sibling timer and
		// the registry must be untouched by it.
		if err := x.fire(ctx, a, tier); err != nil {
			errs.Handle(ctx, goerr.Wrap(err, "escalation tier failed",
				goerr.V("alert_id", a.ID),
				goerr.V("tier", tier)))
			return
		}

		logger.Info("escalation tier fired")
		tierFiredCounter(tier).Inc()
	}()
}

func (x *Scheduler) fire(ctx context.Context, a *alert.Alert, tier types.EscalationTier) error {
	// Each tier re-queries the roster: the on-call list may change
	// between the SMS and the voice call of the same alert.
	contacts, err := x.roster.ListOnCallContacts(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list on-call contacts")
	}
	if len(contacts) == 0 {
		logging.From(ctx).Warn("no duty contacts on call, skipping notification",
			"alert_id", a.ID, "tier", tier)
		return nil
	}

	message := fmt.Sprintf("Unacknowledged alert from %s (id: %s)", a.Label, a.ID)

	switch tier {
	case types.TierSMS:
		return x.notify.SendText(ctx, contacts, message)
	case types.TierCall:
		return x.notify.PlaceVoiceCall(ctx, contacts, message)
	default:
		return goerr.New("unknown escalation tier", goerr.V("tier", tier))
	}
}

func (x *Scheduler) armRetention(ctx context.Context, a *alert.Alert) {
	logger := logging.From(ctx).With("alert_id", a.ID)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errs.Handle(ctx, goerr.New("panic in retention sweep",
					goerr.V("recover", r),
					goerr.V("stack", string(debug.Stack())),
					goerr.V("alert_id", a.ID)))
			}
		}()

		timer := time.NewTimer(x.tier2Delay + x.retention)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			// The accept path removes the alert itself.
			return
		case <-timer.C:
		}

		if a.Accepted() {
			return
		}

		if err := x.repo.DeleteAlert(ctx, a.ID); err != nil {
			errs.Handle(ctx, goerr.Wrap(err, "failed to expire alert",
				goerr.V("alert_id", a.ID)))
			return
		}

		logger.Info("expired never-accepted alert")
		metrics.GetOrCreateCounter("siren_alerts_expired_total").Inc()
	}()
}

func tierFiredCounter(tier types.EscalationTier) *metrics.Counter {
	return metrics.GetOrCreateCounter(
		fmt.Sprintf(`siren_escalations_fired_total{tier=%q}`, tier))
}

func tierCancelledCounter(tier types.EscalationTier) *metrics.Counter {
	return metrics.GetOrCreateCounter(
		fmt.Sprintf(`siren_escalations_cancelled_total{tier=%q}`, tier))
}
