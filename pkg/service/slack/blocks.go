package slack

import (
	"fmt"
	"strings"

	model "github.com/siren-lab/siren/pkg/domain/model/slack"

	"github.com/siren-lab/siren/pkg/domain/model/alert"
	"github.com/slack-go/slack"
)

func buildAlertBlocks(a *alert.Alert) ([]slack.Block, error) {
	payload := model.ActionPayload{
		AlertID: a.ID,
		Label:   a.Label,
	}
	value, err := payload.Encode()
	if err != nil {
		return nil, err
	}

	lines := []string{
		"*ID:* `" + a.ID.String() + "`",
	}
	if a.Origin.IsValid() {
		lines = append(lines, "*Origin:* <"+a.Origin.URL()+"|"+a.Label+">")
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, "🚨 Alert from "+a.Label, false, false),
		),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, strings.Join(lines, "\n"), false, false),
			nil,
			nil,
		),
		slack.NewActionBlock(model.BlockIDAlertActions.String(),
			slack.NewButtonBlockElement(
				model.ActionIDAcceptAlert.String(),
				value,
				slack.NewTextBlockObject(slack.PlainTextType, "Accept", false, false),
			).WithStyle(slack.StylePrimary),
		),
	}

	return blocks, nil
}

func buildAcceptedBlocks(a *alert.Alert, user model.User) []slack.Block {
	return []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, acceptedFallbackText(a, user), false, false),
			nil,
			nil,
		),
	}
}

func alertFallbackText(a *alert.Alert) string {
	return fmt.Sprintf("🚨 Alert from %s (%s)", a.Label, a.ID)
}

func acceptedFallbackText(a *alert.Alert, user model.User) string {
	return fmt.Sprintf("✅ Alert accepted by %s for %s", user.DisplayName(), a.Label)
}
