package slack

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/siren-lab/siren/pkg/domain/model/errs"
	"github.com/siren-lab/siren/pkg/domain/types"
)

// ActionPayload is the correlation token embedded in the Accept button
// of a broadcast alert message. It travels to Slack and back through
// the interaction callback. JSON keeps the label free-form: channel
// names and labels can contain any character without colliding with a
// delimiter.
type ActionPayload struct {
	AlertID types.AlertID `json:"alert_id"`
	Label   string        `json:"label"`
}

func (x ActionPayload) Encode() (string, error) {
	raw, err := json.Marshal(x)
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode action payload",
			goerr.V("alert_id", x.AlertID))
	}
	return string(raw), nil
}

func DecodeActionPayload(value string) (*ActionPayload, error) {
	var payload ActionPayload
	if err := json.Unmarshal([]byte(value), &payload); err != nil {
		return nil, goerr.Wrap(err, "failed to decode action payload",
			goerr.T(errs.TagInvalidRequest),
			goerr.V("value", value))
	}
	if err := payload.AlertID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "action payload has invalid alert ID",
			goerr.T(errs.TagInvalidRequest),
			goerr.V("value", value))
	}
	return &payload, nil
}
