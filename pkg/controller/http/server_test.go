package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	httpCtrl "github.com/siren-lab/siren/pkg/controller/http"
	"github.com/siren-lab/siren/pkg/domain/types"
	"github.com/siren-lab/siren/pkg/repository/memory"
	"github.com/siren-lab/siren/pkg/service/escalation"
	slackService "github.com/siren-lab/siren/pkg/service/slack"
	"github.com/siren-lab/siren/pkg/usecase"
	"github.com/slack-go/slack"
)

type slackClientMock struct {
	mu     sync.Mutex
	posted int
	nextTS int
}

func (x *slackClientMock) AuthTest() (*slack.AuthTestResponse, error) {
	return &slack.AuthTestResponse{UserID: "U_BOT", TeamID: "T0", BotID: "B0"}, nil
}

func (x *slackClientMock) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.posted++
	x.nextTS++
	return channelID, fmt.Sprintf("1700000000.%06d", x.nextTS), nil
}

func (x *slackClientMock) UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	return channelID, timestamp, "", nil
}

func (x *slackClientMock) GetConversationInfo(input *slack.GetConversationInfoInput) (*slack.Channel, error) {
	return &slack.Channel{}, nil
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

func newTestServer(t *testing.T) (*httpCtrl.Server, *memory.Memory) {
	svc, err := slackService.New(&slackClientMock{}, "C_BROADCAST")
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

	return httpCtrl.New(uc, svc), repo
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.V(t, rec.Code).Equal(http.StatusOK)
	gt.V(t, rec.Body.String()).Equal("OK")
}

func TestRawAlertHook(t *testing.T) {
	server, repo := newTestServer(t)

	body := bytes.NewBufferString(`{"label":"GroupA"}`)
	req := httptest.NewRequest(http.MethodPost, "/hooks/alert/raw", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.V(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		AlertID types.AlertID `json:"alert_id"`
	}
	gt.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	gt.NoError(t, resp.AlertID.Validate())

	a, err := repo.GetAlert(context.Background(), resp.AlertID)
	gt.NoError(t, err)
	gt.V(t, a.Label).Equal("GroupA")
}

func TestRawAlertHookValidation(t *testing.T) {
	server, _ := newTestServer(t)

	testCases := map[string]struct {
		contentType string
		body        string
		expect      int
	}{
		"missing label":        {"application/json", `{}`, http.StatusBadRequest},
		"invalid content type": {"text/plain", `{"label":"GroupA"}`, http.StatusBadRequest},
		"broken json":          {"application/json", `{`, http.StatusBadRequest},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/hooks/alert/raw",
				bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", tc.contentType)
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)
			gt.V(t, rec.Code).Equal(tc.expect)
		})
	}
}

func TestSlackURLVerification(t *testing.T) {
	server, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"type":"url_verification","challenge":"challenge-token"}`)
	req := httptest.NewRequest(http.MethodPost, "/hooks/slack/event", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.V(t, rec.Code).Equal(http.StatusOK)
	gt.S(t, rec.Body.String()).Contains("challenge-token")
}

func TestSlackInteractionRequiresPayload(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/hooks/slack/interaction",
		strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	gt.V(t, rec.Code).Equal(http.StatusBadRequest)
}
