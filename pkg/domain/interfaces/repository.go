package interfaces

import (
	"context"

	"github.com/siren-lab/siren/pkg/domain/model/alert"
	"github.com/siren-lab/siren/pkg/domain/types"
)

// Repository is the registry of active alerts. Alerts are live
// in-memory entities for the process lifetime; the registry is the
// only structure mutated concurrently by the dispatch loop and the
// escalation timers of other alerts, so every per-key operation must
// be atomic.
type Repository interface {
	// PutAlert inserts a new alert. Inserting an existing ID is a
	// conflict error; fresh random IDs make that unreachable in
	// normal operation.
	PutAlert(ctx context.Context, alert *alert.Alert) error

	// GetAlert returns the alert or a not_found-tagged error.
	GetAlert(ctx context.Context, alertID types.AlertID) (*alert.Alert, error)

	// DeleteAlert removes the alert. Removing an absent ID is a no-op.
	DeleteAlert(ctx context.Context, alertID types.AlertID) error

	CountAlerts(ctx context.Context) (int, error)
}
