package slack

type ActionID string

func (id ActionID) String() string {
	return string(id)
}

const (
	// ActionIDAcceptAlert is attached to the Accept button on a
	// broadcast alert message. Its value carries an ActionPayload.
	ActionIDAcceptAlert ActionID = "accept_alert"
)

type BlockID string

func (id BlockID) String() string {
	return string(id)
}

const (
	BlockIDAlertActions BlockID = "alert_actions"
)
