package controllers

import (
	"context"
	"net/http"

	"github.com/fusionwear/storefront/api/responses"
	"github.com/fusionwear/storefront/api/validators"
	"github.com/fusionwear/storefront/internal/chat"
	"github.com/fusionwear/storefront/pkg/logger"
)

// ChatReplier is the proxy surface the handler needs.
type ChatReplier interface {
	Reply(ctx context.Context, req chat.Request) (*chat.Reply, error)
}

// ChatReply forwards a shopper message to the model. Responses use the flat
// {message, model} and {error, details} shapes the widget reads.
func ChatReply(svc ChatReplier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload chat.Request
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WritePlainError(r.Context(), logg, w, err)
			return
		}

		reply, err := svc.Reply(r.Context(), payload)
		if err != nil {
			responses.WritePlainError(r.Context(), logg, w, err)
			return
		}

		responses.WritePlain(w, http.StatusOK, reply)
	}
}
