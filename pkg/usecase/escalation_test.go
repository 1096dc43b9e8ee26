package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	model "github.com/siren-lab/siren/pkg/domain/model/slack"
	"github.com/siren-lab/siren/pkg/domain/types"
	"github.com/siren-lab/siren/pkg/repository/memory"
	"github.com/siren-lab/siren/pkg/service/escalation"
	slackService "github.com/siren-lab/siren/pkg/service/slack"
	"github.com/siren-lab/siren/pkg/usecase"
	"github.com/slack-go/slack"
)

type postedMessage struct {
	channelID string
	timestamp string
}

type slackClientMock struct {
	mu        sync.Mutex
	posted    []postedMessage
	updated   []postedMessage
	nextTS    int
	postErr   error
	updateErr error
}

func (x *slackClientMock) failWith(postErr, updateErr error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.postErr = postErr
	x.updateErr = updateErr
}

func (x *slackClientMock) AuthTest() (*slack.AuthTestResponse, error) {
	return &slack.AuthTestResponse{
		UserID: "U_BOT",
		TeamID: "T0000000",
		BotID:  "B0000000",
	}, nil
}

func (x *slackClientMock) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.postErr != nil {
		return "", "", x.postErr
	}
	x.nextTS++
	ts := fmt.Sprintf("1700000000.%06d", x.nextTS)
	x.posted = append(x.posted, postedMessage{channelID: channelID, timestamp: ts})
	return channelID, ts, nil
}

func (x *slackClientMock) UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.updateErr != nil {
		return "", "", "", x.updateErr
	}
	x.updated = append(x.updated, postedMessage{channelID: channelID, timestamp: timestamp})
	return channelID, timestamp, "", nil
}

func (x *slackClientMock) GetConversationInfo(input *slack.GetConversationInfoInput) (*slack.Channel, error) {
	return &slack.Channel{
		GroupConversation: slack.GroupConversation{Name: "ops-room"},
	}, nil
}

type notifyRecorder struct {
	mu    sync.Mutex
	texts int
	calls int
}

func (x *notifyRecorder) SendText(ctx context.Context, contacts []string, message string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.texts++
	return nil
}

func (x *notifyRecorder) PlaceVoiceCall(ctx context.Context, contacts []string, message string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.calls++
	return nil
}

type rosterMock struct{}

func (x *rosterMock) ListOnCallContacts(ctx context.Context) ([]string, error) {
	return []string{"+70000000001"}, nil
}

type testEnv struct {
	uc     *usecase.UseCases
	repo   *memory.Memory
	client *slackClientMock
	notify *notifyRecorder
}

func newTestEnv(t *testing.T, tier1, tier2 time.Duration) *testEnv {
	client := &slackClientMock{}
	svc, err := slackService.New(client, "C_BROADCAST")
	gt.NoError(t, err).Required()

	repo := memory.New()
	notify := &notifyRecorder{}
	sched := escalation.New(repo, &rosterMock{}, notify,
		escalation.WithTier1Delay(tier1),
		escalation.WithTier2Delay(tier2),
		escalation.WithRetention(0))

	uc := usecase.New(
		usecase.WithRepository(repo),
		usecase.WithSlackService(svc),
		usecase.WithScheduler(sched),
	)

	return &testEnv{uc: uc, repo: repo, client: client, notify: notify}
}

func TestRaiseAndAcceptAlert(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 60*time.Millisecond, 120*time.Millisecond)

	origin := model.MessageRef{ChannelID: "C_GROUP_A", MessageID: "1700000000.000055"}
	a, err := env.uc.RaiseAlert(ctx, "GroupA", origin)
	gt.NoError(t, err).Required()
	gt.V(t, a.Broadcast.ChannelID).Equal("C_BROADCAST")
	gt.True(t, a.Broadcast.IsValid())

	stored, err := env.repo.GetAlert(ctx, a.ID)
	gt.NoError(t, err)
	gt.V(t, stored).Equal(a)

	user := model.User{ID: "U_BOB", Name: "bob"}
	gt.NoError(t, env.uc.AcceptAlert(ctx, a.ID, user, "GroupA"))

	// Broadcast message edited in place, acknowledgment threaded on the
	// origin message, alert released from the registry.
	env.client.mu.Lock()
	gt.A(t, env.client.updated).Length(1)
	gt.V(t, env.client.updated[0].channelID).Equal("C_BROADCAST")
	gt.A(t, env.client.posted).Length(2)
	gt.V(t, env.client.posted[1].channelID).Equal("C_GROUP_A")
	env.client.mu.Unlock()

	_, err = env.repo.GetAlert(ctx, a.ID)
	gt.Error(t, err)

	// Accepted in time, so neither tier may fire.
	time.Sleep(300 * time.Millisecond)
	env.notify.mu.Lock()
	gt.V(t, env.notify.texts).Equal(0)
	gt.V(t, env.notify.calls).Equal(0)
	env.notify.mu.Unlock()
}

func TestAcceptSurvivesDeliveryFailures(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 60*time.Millisecond, 120*time.Millisecond)

	origin := model.MessageRef{ChannelID: "C_GROUP_A", MessageID: "1700000000.000055"}
	a, err := env.uc.RaiseAlert(ctx, "GroupA", origin)
	gt.NoError(t, err).Required()

	// Chat delivery breaking after the raise must not undo the accept:
	// the in-memory transition wins, the failures are only logged.
	env.client.failWith(
		errors.New("post failed"),
		errors.New("update failed"),
	)

	gt.NoError(t, env.uc.AcceptAlert(ctx, a.ID, model.User{ID: "U_BOB", Name: "bob"}, "GroupA"))

	gt.True(t, a.Accepted())
	_, err = env.repo.GetAlert(ctx, a.ID)
	gt.Error(t, err)

	// Both timers are cancelled despite the delivery failures.
	time.Sleep(300 * time.Millisecond)
	env.notify.mu.Lock()
	gt.V(t, env.notify.texts).Equal(0)
	gt.V(t, env.notify.calls).Equal(0)
	env.notify.mu.Unlock()
}

func TestDoubleAcceptIsNoOp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour, 2*time.Hour)

	origin := model.MessageRef{ChannelID: "C_GROUP_A", MessageID: "1700000000.000055"}
	a, err := env.uc.RaiseAlert(ctx, "GroupA", origin)
	gt.NoError(t, err).Required()

	gt.NoError(t, env.uc.AcceptAlert(ctx, a.ID, model.User{ID: "U_BOB", Name: "bob"}, "GroupA"))
	gt.NoError(t, env.uc.AcceptAlert(ctx, a.ID, model.User{ID: "U_EVE", Name: "eve"}, "GroupA"))

	env.client.mu.Lock()
	defer env.client.mu.Unlock()
	gt.A(t, env.client.updated).Length(1)
	gt.A(t, env.client.posted).Length(2)
}

func TestAcceptUnknownAlertIsNoOp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour, 2*time.Hour)

	err := env.uc.AcceptAlert(ctx, types.NewAlertID(), model.User{ID: "U_BOB"}, "GroupA")
	gt.NoError(t, err)

	env.client.mu.Lock()
	defer env.client.mu.Unlock()
	gt.A(t, env.client.updated).Length(0)
	gt.A(t, env.client.posted).Length(0)
}

func TestAcceptOneAlertLeavesOthersArmed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Hour, 2*time.Hour)

	first, err := env.uc.RaiseAlert(ctx, "GroupA",
		model.MessageRef{ChannelID: "C_GROUP_A", MessageID: "1700000000.000055"})
	gt.NoError(t, err).Required()
	second, err := env.uc.RaiseAlert(ctx, "GroupB",
		model.MessageRef{ChannelID: "C_GROUP_B", MessageID: "1700000000.000077"})
	gt.NoError(t, err).Required()

	gt.NoError(t, env.uc.AcceptAlert(ctx, first.ID, model.User{ID: "U_BOB"}, "GroupA"))

	remaining, err := env.repo.GetAlert(ctx, second.ID)
	gt.NoError(t, err)
	gt.False(t, remaining.Accepted())

	n, err := env.repo.CountAlerts(ctx)
	gt.NoError(t, err)
	gt.V(t, n).Equal(1)
}
