package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fusionwear/storefront/pkg/enums"
	pkgerrors "github.com/fusionwear/storefront/pkg/errors"
)

const responseReadLimit int64 = 1 << 20

// Client is the chat widget: it posts to the proxy and keeps the
// conversation so each question carries the earlier turns.
type Client struct {
	httpClient *http.Client
	endpoint   string
	history    []Turn
}

// ClientOption configures the widget client.
type ClientOption func(*Client)

func WithClientHTTP(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient targets the proxy served at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   strings.TrimRight(baseURL, "/") + "/api/chat",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// History returns the turns recorded so far.
func (c *Client) History() []Turn {
	return append([]Turn(nil), c.history...)
}

// Reset forgets the conversation.
func (c *Client) Reset() {
	c.history = nil
}

// Ask sends message with the recorded history. Only successful exchanges
// are added to the history.
func (c *Client) Ask(ctx context.Context, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgMessageRequired)
	}

	history := c.history
	if history == nil {
		history = []Turn{}
	}
	body, err := json.Marshal(Request{Message: message, History: history})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build chat request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "chat service unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read chat response")
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error   string `json:"error"`
			Details any    `json:"details"`
		}
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &failure) == nil && failure.Error != "" {
			msg = failure.Error
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, fmt.Errorf("status %d", resp.StatusCode), msg).
			WithHTTPStatus(resp.StatusCode).
			WithDetails(failure.Details)
	}

	var reply Reply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode chat response")
	}

	c.history = append(c.history,
		Turn{Role: enums.ChatRoleUser, Content: message},
		Turn{Role: enums.ChatRoleAssistant, Content: reply.Message},
	)
	return &reply, nil
}
