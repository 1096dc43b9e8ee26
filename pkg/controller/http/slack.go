package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	slack_ctrl "github.com/siren-lab/siren/pkg/controller/slack"
	"github.com/siren-lab/siren/pkg/domain/model/errs"
	"github.com/siren-lab/siren/pkg/utils/logging"
	"github.com/siren-lab/siren/pkg/utils/safe"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

func slackEventHandler(ctrl *slack_ctrl.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			handleError(w, r, goerr.Wrap(err, "failed to read request body"))
			return
		}

		eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
		if err != nil {
			handleError(w, r, goerr.Wrap(err, "failed to parse slack event",
				goerr.T(errs.TagInvalidRequest),
				goerr.V("body", string(body)),
			))
			return
		}

		switch eventsAPIEvent.Type {
		case slackevents.URLVerification:
			var response *slackevents.ChallengeResponse
			if err := json.Unmarshal(body, &response); err != nil {
				handleError(w, r, goerr.Wrap(err, "failed to unmarshal slack challenge response",
					goerr.T(errs.TagInvalidRequest),
					goerr.V("body", string(body)),
				))
				return
			}
			w.Header().Set("Content-Type", "text")
			safe.Write(r.Context(), w, []byte(response.Challenge))

		case slackevents.CallbackEvent:
			switch ev := eventsAPIEvent.InnerEvent.Data.(type) {
			case *slackevents.AppMentionEvent:
				if err := ctrl.HandleSlackAppMention(r.Context(), ev); err != nil {
					logging.From(r.Context()).Error("failed to handle app mention", "error", err)
				}

			default:
				logging.From(r.Context()).Debug("unhandled event type, ignoring", "event", ev)
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

func slackInteractionHandler(ctrl *slack_ctrl.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := r.FormValue("payload")
		if payload == "" {
			handleError(w, r, goerr.New("payload is required",
				goerr.T(errs.TagInvalidRequest)),
			)
			return
		}

		var interaction slack.InteractionCallback
		if err := json.Unmarshal([]byte(payload), &interaction); err != nil {
			handleError(w, r, goerr.Wrap(err, "failed to unmarshal slack interaction",
				goerr.T(errs.TagInvalidRequest),
				goerr.V("payload", payload),
			))
			return
		}

		if err := ctrl.HandleSlackInteraction(r.Context(), interaction); err != nil {
			handleError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
