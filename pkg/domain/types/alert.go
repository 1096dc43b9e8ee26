package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type AlertID string

func (x AlertID) String() string {
	return string(x)
}

// NewAlertID returns a fresh random alert ID. The ID is embedded in
// outbound chat messages and must survive the round trip back through
// an interaction callback, so it must stay unique for the process
// lifetime. UUIDv4 makes collision and exhaustion non-issues.
func NewAlertID() AlertID {
	return AlertID(uuid.New().String())
}

const (
	EmptyAlertID AlertID = ""
)

func (x AlertID) Validate() error {
	if x == EmptyAlertID {
		return goerr.New("empty alert ID")
	}
	if _, err := uuid.Parse(string(x)); err != nil {
		return goerr.Wrap(err, "invalid alert ID format", goerr.V("id", x))
	}
	return nil
}
