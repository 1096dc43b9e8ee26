package types

import "github.com/m-mizutani/goerr/v2"

// EscalationTier identifies one of the two unacknowledged-deadline
// actions of an alert.
type EscalationTier string

const (
	TierSMS  EscalationTier = "sms"
	TierCall EscalationTier = "call"
)

func (x EscalationTier) String() string {
	return string(x)
}

func (x EscalationTier) Validate() error {
	switch x {
	case TierSMS, TierCall:
		return nil
	}
	return goerr.New("invalid escalation tier", goerr.V("tier", x))
}
