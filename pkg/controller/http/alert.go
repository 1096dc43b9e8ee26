package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/siren-lab/siren/pkg/domain/interfaces"
	"github.com/siren-lab/siren/pkg/domain/model/errs"
	"github.com/siren-lab/siren/pkg/domain/model/slack"
)

// rawAlertRequest is the body of POST /hooks/alert/raw, for systems
// that raise alerts directly instead of through a chat message. The
// origin fields are optional; without them no threaded acknowledgment
// is posted on acceptance.
type rawAlertRequest struct {
	Label         string `json:"label"`
	OriginChannel string `json:"origin_channel,omitempty"`
	OriginTS      string `json:"origin_ts,omitempty"`
}

func alertRawHandler(uc interfaces.EscalationUsecases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			handleError(w, r, goerr.New("invalid content type",
				goerr.T(errs.TagInvalidRequest),
			))
			return
		}

		var req rawAlertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(w, r, goerr.Wrap(err, "failed to decode alert request",
				goerr.T(errs.TagInvalidRequest),
			))
			return
		}
		if req.Label == "" {
			handleError(w, r, goerr.New("label is required",
				goerr.T(errs.TagValidation),
			))
			return
		}

		a, err := uc.RaiseAlert(r.Context(), req.Label, slack.MessageRef{
			ChannelID: req.OriginChannel,
			MessageID: req.OriginTS,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"alert_id": a.ID}); err != nil {
			handleError(w, r, goerr.Wrap(err, "failed to encode response"))
		}
	}
}
