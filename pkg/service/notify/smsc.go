package notify

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/siren-lab/siren/pkg/domain/interfaces"
	"github.com/siren-lab/siren/pkg/domain/model/errs"
	"github.com/siren-lab/siren/pkg/domain/types"
	"github.com/siren-lab/siren/pkg/utils/logging"
	"github.com/siren-lab/siren/pkg/utils/safe"
)

const defaultTimeout = 10 * time.Second

// Client dispatches SMS and voice-call notifications through an
// SMSC-compatible HTTP gateway. Delivery is best effort per contact:
// one failing number never aborts the rest.
type Client struct {
	baseURL    string
	login      string
	apiKey     string
	sender     string
	httpClient *http.Client
}

var _ interfaces.NotifyClient = &Client{}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithSender(sender string) Option {
	return func(c *Client) {
		c.sender = sender
	}
}

func New(baseURL, login, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("notify gateway base URL is not set")
	}
	if login == "" || apiKey == "" {
		return nil, goerr.New("notify gateway credentials are not set")
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		login:      login,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (x *Client) SendText(ctx context.Context, contacts []string, message string) error {
	return x.dispatch(ctx, types.TierSMS, contacts, message)
}

func (x *Client) PlaceVoiceCall(ctx context.Context, contacts []string, message string) error {
	return x.dispatch(ctx, types.TierCall, contacts, message)
}

func (x *Client) dispatch(ctx context.Context, tier types.EscalationTier, contacts []string, message string) error {
	logger := logging.From(ctx)

	if err := tier.Validate(); err != nil {
		return err
	}

	if len(contacts) == 0 {
		logger.Warn("no duty contacts, skipping notification", "tier", tier)
		return nil
	}

	var failed []string
	for _, phone := range contacts {
		if err := x.sendOne(ctx, tier, phone, message); err != nil {
			logger.Error("failed to notify duty contact",
				"tier", tier, "phone", phone, logging.ErrAttr(err))
			failed = append(failed, phone)
			continue
		}
		logger.Info("duty contact notified", "tier", tier, "phone", phone)
	}

	if len(failed) > 0 {
		return goerr.New("notification delivery failed for some contacts",
			goerr.T(errs.TagNotifyError),
			goerr.V("tier", tier),
			goerr.V("failed", failed),
			goerr.V("total", len(contacts)))
	}

	return nil
}

func (x *Client) sendOne(ctx context.Context, tier types.EscalationTier, phone, message string) error {
	q := url.Values{}
	q.Set("login", x.login)
	q.Set("psw", x.apiKey)
	q.Set("phones", phone)
	q.Set("mes", message)
	q.Set("fmt", "3")
	if x.sender != "" {
		q.Set("sender", x.sender)
	}
	if tier == types.TierCall {
		q.Set("call", "1")
	}

	endpoint := x.baseURL + "/sys/send.php?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build gateway request")
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "gateway request failed", goerr.T(errs.TagExternal))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return goerr.New("gateway returned non-2xx status",
			goerr.T(errs.TagExternal),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", strings.TrimSpace(string(body))))
	}

	return nil
}
