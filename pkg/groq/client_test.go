package groq

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fusionwear/storefront/pkg/enums"
	pkgerrors "github.com/fusionwear/storefront/pkg/errors"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithBaseURL("http://groq.test/openai/v1/"),
		WithHTTPClient(&http.Client{Transport: rt}),
	}, opts...)
	client, err := NewClient("gsk_test", opts...)
	require.NoError(t, err)
	return client
}

func userTurn(text string) CompletionRequest {
	return CompletionRequest{
		Model:       DefaultModel,
		Messages:    []Message{{Role: enums.ChatRoleSystem, Content: "ctx"}, {Role: enums.ChatRoleUser, Content: text}},
		MaxTokens:   500,
		Temperature: 0.7,
	}
}

func TestCompleteSendsRequestAndParsesChoice(t *testing.T) {
	var captured *http.Request
	var payload map[string]any

	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &payload))
		return jsonResponse(http.StatusOK, `{"model":"llama-3.3-70b-versatile","choices":[{"message":{"role":"assistant","content":"We ship worldwide."}}]}`), nil
	})

	got, err := client.Complete(context.Background(), userTurn("do you ship abroad?"))
	require.NoError(t, err)

	assert.Equal(t, "http://groq.test/openai/v1/chat/completions", captured.URL.String())
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "Bearer gsk_test", captured.Header.Get("Authorization"))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.Equal(t, "llama-3.3-70b-versatile", payload["model"])
	assert.EqualValues(t, 500, payload["max_tokens"])
	assert.EqualValues(t, 0.7, payload["temperature"])
	assert.Len(t, payload["messages"], 2)

	assert.Equal(t, "We ship worldwide.", got.Content)
	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
}

func TestCompleteWithoutChoicesReturnsEmptyContent(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"model":"m","choices":[]}`), nil
	})
	got, err := client.Complete(context.Background(), userTurn("hi"))
	require.NoError(t, err)
	assert.Empty(t, got.Content)
	assert.Equal(t, "m", got.Model)
}

func TestCompleteForwardsUpstreamStatusAndBody(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"error":{"message":"Invalid API Key"}}`), nil
	}, WithBreaker(BreakerSettings{MinRequests: 1, FailureRatio: 0.1, Timeout: time.Minute}))

	for i := 0; i < 3; i++ {
		_, err := client.Complete(context.Background(), userTurn("hi"))
		require.Error(t, err)

		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeUpstream, typed.Code())
		assert.Equal(t, http.StatusUnauthorized, typed.HTTPStatus())
		assert.Equal(t, "Failed to get response from AI", typed.Message())
		assert.Equal(t, map[string]any{"error": map[string]any{"message": "Invalid API Key"}}, typed.Details())
	}
	assert.Equal(t, gobreaker.StateClosed, client.State(), "4xx replies must not trip the breaker")
}

func TestCompleteOpensBreakerOnServerErrors(t *testing.T) {
	calls := 0
	var states []int
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusBadGateway, `upstream down`), nil
	},
		WithBreaker(BreakerSettings{MaxRequests: 1, MinRequests: 2, FailureRatio: 0.5, Timeout: time.Minute}),
		WithStateListener(func(state int) { states = append(states, state) }),
	)

	for i := 0; i < 2; i++ {
		_, err := client.Complete(context.Background(), userTurn("hi"))
		require.Error(t, err)
		assert.Equal(t, "upstream down", pkgerrors.As(err).Details())
	}
	assert.Equal(t, gobreaker.StateOpen, client.State())
	assert.Equal(t, []int{2}, states)

	_, err := client.Complete(context.Background(), userTurn("hi"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, 2, calls, "open breaker must short-circuit the transport")
}

func TestCompleteValidation(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("transport should not be called")
		return nil, nil
	})
	_, err := client.Complete(context.Background(), CompletionRequest{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	var nilClient *Client
	_, err = nilClient.Complete(context.Background(), userTurn("hi"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConfiguration))
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("   ")
	assert.Error(t, err)
}
