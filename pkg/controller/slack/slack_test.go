package slack_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	slack_ctrl "github.com/siren-lab/siren/pkg/controller/slack"
	model "github.com/siren-lab/siren/pkg/domain/model/slack"
	"github.com/siren-lab/siren/pkg/repository/memory"
	"github.com/siren-lab/siren/pkg/service/escalation"
	slackService "github.com/siren-lab/siren/pkg/service/slack"
	"github.com/siren-lab/siren/pkg/usecase"
	sdk "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

type slackClientMock struct {
	mu      sync.Mutex
	posted  int
	updated int
	nextTS  int
}

func (x *slackClientMock) AuthTest() (*sdk.AuthTestResponse, error) {
	return &sdk.AuthTestResponse{UserID: "U_BOT", TeamID: "T0", BotID: "B0"}, nil
}

func (x *slackClientMock) PostMessageContext(ctx context.Context, channelID string, options ...sdk.MsgOption) (string, string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.posted++
	x.nextTS++
	return channelID, fmt.Sprintf("1700000000.%06d", x.nextTS), nil
}

func (x *slackClientMock) UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...sdk.MsgOption) (string, string, string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.updated++
	return channelID, timestamp, "", nil
}

func (x *slackClientMock) GetConversationInfo(input *sdk.GetConversationInfoInput) (*sdk.Channel, error) {
	return &sdk.Channel{
		GroupConversation: sdk.GroupConversation{Name: "ops-room"},
	}, nil
}

type rosterMock struct{}

func (x *rosterMock) ListOnCallContacts(ctx context.Context) ([]string, error) {
	return nil, nil
}

type notifyMock struct{}

func (x *notifyMock) SendText(ctx context.Context, contacts []string, message string) error {
	return nil
}

func (x *notifyMock) PlaceVoiceCall(ctx context.Context, contacts []string, message string) error {
	return nil
}

type testEnv struct {
	ctrl   *slack_ctrl.Controller
	uc     *usecase.UseCases
	repo   *memory.Memory
	client *slackClientMock
}

func newTestEnv(t *testing.T) *testEnv {
	client := &slackClientMock{}
	svc, err := slackService.New(client, "C_BROADCAST")
	gt.NoError(t, err).Required()

	repo := memory.New()
	sched := escalation.New(repo, &rosterMock{}, &notifyMock{},
		escalation.WithTier1Delay(time.Hour),
		escalation.WithTier2Delay(2*time.Hour),
		escalation.WithRetention(0))
	uc := usecase.New(
		usecase.WithRepository(repo),
		usecase.WithSlackService(svc),
		usecase.WithScheduler(sched),
	)

	return &testEnv{
		ctrl:   slack_ctrl.New(uc, svc),
		uc:     uc,
		repo:   repo,
		client: client,
	}
}

func TestAppMentionRaisesAlert(t *testing.T) {
	ctx := slack_ctrl.WithSync(context.Background())
	env := newTestEnv(t)

	gt.NoError(t, env.ctrl.HandleSlackAppMention(ctx, &slackevents.AppMentionEvent{
		User:      "U_ALICE",
		Channel:   "C_GROUP_A",
		TimeStamp: "1700000000.000055",
	}))

	n, err := env.repo.CountAlerts(ctx)
	gt.NoError(t, err)
	gt.V(t, n).Equal(1)

	env.client.mu.Lock()
	defer env.client.mu.Unlock()
	gt.V(t, env.client.posted).Equal(1)
}

func TestAppMentionByBotIsIgnored(t *testing.T) {
	ctx := slack_ctrl.WithSync(context.Background())
	env := newTestEnv(t)

	gt.NoError(t, env.ctrl.HandleSlackAppMention(ctx, &slackevents.AppMentionEvent{
		User:      "U_BOT",
		Channel:   "C_GROUP_A",
		TimeStamp: "1700000000.000055",
	}))

	n, err := env.repo.CountAlerts(ctx)
	gt.NoError(t, err)
	gt.V(t, n).Equal(0)
}

func TestAcceptInteraction(t *testing.T) {
	ctx := slack_ctrl.WithSync(context.Background())
	env := newTestEnv(t)

	a, err := env.uc.RaiseAlert(ctx, "GroupA",
		model.MessageRef{ChannelID: "C_GROUP_A", MessageID: "1700000000.000055"})
	gt.NoError(t, err).Required()

	value, err := model.ActionPayload{AlertID: a.ID, Label: a.Label}.Encode()
	gt.NoError(t, err).Required()

	interaction := sdk.InteractionCallback{
		Type: sdk.InteractionTypeBlockActions,
		User: sdk.User{ID: "U_BOB", Name: "bob"},
		ActionCallback: sdk.ActionCallbacks{
			BlockActions: []*sdk.BlockAction{
				{ActionID: model.ActionIDAcceptAlert.String(), Value: value},
			},
		},
	}

	gt.NoError(t, env.ctrl.HandleSlackInteraction(ctx, interaction))

	n, err := env.repo.CountAlerts(ctx)
	gt.NoError(t, err)
	gt.V(t, n).Equal(0)

	env.client.mu.Lock()
	defer env.client.mu.Unlock()
	gt.V(t, env.client.updated).Equal(1)
	// Broadcast alert plus the threaded acknowledgment.
	gt.V(t, env.client.posted).Equal(2)
}

func TestUnknownActionIsIgnored(t *testing.T) {
	ctx := slack_ctrl.WithSync(context.Background())
	env := newTestEnv(t)

	interaction := sdk.InteractionCallback{
		Type: sdk.InteractionTypeBlockActions,
		User: sdk.User{ID: "U_BOB", Name: "bob"},
		ActionCallback: sdk.ActionCallbacks{
			BlockActions: []*sdk.BlockAction{
				{ActionID: "unrelated_button", Value: "whatever"},
			},
		},
	}

	gt.NoError(t, env.ctrl.HandleSlackInteraction(ctx, interaction))

	n, err := env.repo.CountAlerts(ctx)
	gt.NoError(t, err)
	gt.V(t, n).Equal(0)
}
