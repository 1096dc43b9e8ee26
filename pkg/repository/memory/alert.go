package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/siren-lab/siren/pkg/domain/model/alert"
	"github.com/siren-lab/siren/pkg/domain/model/errs"
	"github.com/siren-lab/siren/pkg/domain/types"
)

// PutAlert stores the alert pointer as-is. Alerts are live entities
// shared with the escalation timers; copying would detach the
// acceptance flag from its watchers.
func (r *Memory) PutAlert(ctx context.Context, a *alert.Alert) error {
	if err := a.ID.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid alert ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.alerts[a.ID]; ok {
		return r.eb.Wrap(goerr.New("alert already exists"), "conflict",
			goerr.T(errs.TagConflict),
			goerr.V("alert_id", a.ID))
	}

	r.alerts[a.ID] = a
	return nil
}

func (r *Memory) GetAlert(ctx context.Context, alertID types.AlertID) (*alert.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.alerts[alertID]
	if !ok {
		return nil, r.eb.Wrap(goerr.New("alert not found"), "not found",
			goerr.T(errs.TagNotFound),
			goerr.V("alert_id", alertID))
	}

	return a, nil
}

// DeleteAlert is idempotent. Both the accept path and the retention
// sweep call it, whichever comes first wins and the other is a no-op.
func (r *Memory) DeleteAlert(ctx context.Context, alertID types.AlertID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.alerts, alertID)
	return nil
}

func (r *Memory) CountAlerts(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.alerts), nil
}
