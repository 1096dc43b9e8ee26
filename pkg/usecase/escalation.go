package usecase

import (
	"context"
	"fmt"

	"github.com/VictoriaMetrics/metrics"
	"github.com/m-mizutani/goerr/v2"
	"github.com/siren-lab/siren/pkg/domain/model/alert"
	"github.com/siren-lab/siren/pkg/domain/model/errs"
	model "github.com/siren-lab/siren/pkg/domain/model/slack"
	"github.com/siren-lab/siren/pkg/domain/types"
	"github.com/siren-lab/siren/pkg/utils/logging"
)

// RaiseAlert posts the alert to the broadcast channel, registers it and
// arms both escalation timers. A broadcast failure aborts the raise:
// an alert nobody can see or accept must not start escalating.
func (u *UseCases) RaiseAlert(ctx context.Context, label string, origin model.MessageRef) (*alert.Alert, error) {
	logger := logging.From(ctx)

	a := alert.New(ctx, label, origin)

	ref, err := u.slackService.PostAlert(ctx, a)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to broadcast alert",
			goerr.V("label", label))
	}
	a.Broadcast = *ref

	if err := u.repository.PutAlert(ctx, a); err != nil {
		return nil, goerr.Wrap(err, "failed to register alert",
			goerr.V("alert_id", a.ID))
	}

	u.scheduler.Arm(ctx, a)

	logger.Info("alert raised",
		"alert_id", a.ID,
		"label", a.Label,
		"broadcast", a.Broadcast,
	)
	metrics.GetOrCreateCounter("siren_alerts_raised_total").Inc()

	return a, nil
}

// AcceptAlert handles an Accept action. The in-memory transition comes
// first: the timers are stopped and the alert is released before any
// chat delivery happens, and delivery failures are logged rather than
// rolled back. An operator pressing Accept has accepted, whatever the
// chat API thinks of it.
func (u *UseCases) AcceptAlert(ctx context.Context, alertID types.AlertID, user model.User, label string) error {
	logger := logging.From(ctx).With("alert_id", alertID, "user", user.ID)

	a, err := u.repository.GetAlert(ctx, alertID)
	if err != nil {
		if goerr.HasTag(err, errs.TagNotFound) {
			// Stale button press: already accepted elsewhere or expired.
			logger.Info("accept for unknown alert, ignoring", "label", label)
			return nil
		}
		return goerr.Wrap(err, "failed to look up alert")
	}

	if !a.Accept() {
		logger.Info("alert already accepted, ignoring")
		return nil
	}

	a.Cancel()

	if err := u.slackService.MarkAlertAccepted(ctx, a, user); err != nil {
		errs.Handle(ctx, goerr.Wrap(err, "failed to edit broadcast message",
			goerr.V("alert_id", a.ID)))
	}

	if a.Origin.IsValid() {
		ack := fmt.Sprintf("✅ %s accepted the alert for %s", user.DisplayName(), a.Label)
		if err := u.slackService.ReplyTo(ctx, a.Origin, ack); err != nil {
			errs.Handle(ctx, goerr.Wrap(err, "failed to post acknowledgment",
				goerr.V("alert_id", a.ID),
				goerr.V("origin", a.Origin)))
		}
	}

	if err := u.repository.DeleteAlert(ctx, a.ID); err != nil {
		errs.Handle(ctx, goerr.Wrap(err, "failed to release accepted alert",
			goerr.V("alert_id", a.ID)))
	}

	logger.Info("alert accepted", "label", a.Label)
	metrics.GetOrCreateCounter("siren_alerts_accepted_total").Inc()

	return nil
}
