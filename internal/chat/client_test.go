package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fusionwear/storefront/pkg/enums"
	pkgerrors "github.com/fusionwear/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientKeepsHistoryAcrossQuestions(t *testing.T) {
	var requests []Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Reply{Message: "answer to " + req.Message, Model: "m"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	reply, err := client.Ask(context.Background(), "first?")
	require.NoError(t, err)
	assert.Equal(t, "answer to first?", reply.Message)

	_, err = client.Ask(context.Background(), "second?")
	require.NoError(t, err)

	require.Len(t, requests, 2)
	assert.Empty(t, requests[0].History)
	assert.Equal(t, []Turn{
		{Role: enums.ChatRoleUser, Content: "first?"},
		{Role: enums.ChatRoleAssistant, Content: "answer to first?"},
	}, requests[1].History)
	assert.Len(t, client.History(), 4)

	client.Reset()
	assert.Empty(t, client.History())
}

func TestClientSurfacesProxyErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"API key not configured"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithClientHTTP(srv.Client()))
	_, err := client.Ask(context.Background(), "hello")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "API key not configured", typed.Message())
	assert.Equal(t, http.StatusInternalServerError, typed.HTTPStatus())
	assert.Empty(t, client.History(), "failed exchanges are not recorded")

	_, err = client.Ask(context.Background(), "   ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
