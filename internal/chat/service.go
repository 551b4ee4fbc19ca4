// Package chat implements the assistant proxy and the client the shell uses
// to talk to it.
package chat

import (
	"context"
	"time"

	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/pkg/config"
	"github.com/fusionwear/storefront/pkg/enums"
	pkgerrors "github.com/fusionwear/storefront/pkg/errors"
	"github.com/fusionwear/storefront/pkg/groq"
	"github.com/fusionwear/storefront/pkg/logger"
	"github.com/fusionwear/storefront/pkg/metrics"
)

const (
	// FallbackReply is returned when the model produced no text.
	FallbackReply = "Sorry, I couldn't generate a response."

	MsgMessageRequired = "Message is required"
	MsgAPIKeyMissing   = "API key not configured"
	MsgUpstreamFailed  = "Failed to get response from AI"
	MsgInternal        = "Internal server error"

	defaultHistoryLimit = 10
	defaultMaxTokens    = 500
)

// Turn is one prior message in the conversation.
type Turn struct {
	Role    enums.ChatRole `json:"role"`
	Content string         `json:"content"`
}

// Request is the proxy payload.
type Request struct {
	Message string `json:"message" validate:"max=4000"`
	History []Turn `json:"history" validate:"max=100"`
}

// Reply is the proxy response.
type Reply struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

// Completer is the upstream model. *groq.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req groq.CompletionRequest) (*groq.Completion, error)
}

// Service answers shopper questions with the catalog-derived system prompt.
type Service struct {
	completer    Completer
	prompt       string
	model        string
	maxTokens    int
	temperature  float64
	historyLimit int
	metrics      *metrics.ChatMetrics
	logg         *logger.Logger
}

// NewService builds the proxy. completer may be nil when no API key is
// configured; every reply then fails with a configuration error.
// cfg.Temperature is forwarded as is, including 0.
func NewService(cfg config.ChatConfig, cat *catalog.Catalog, completer Completer, m *metrics.ChatMetrics, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	s := &Service{
		completer:    completer,
		prompt:       SystemPrompt(cat),
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		historyLimit: cfg.HistoryLimit,
		metrics:      m,
		logg:         logg,
	}
	if s.model == "" {
		s.model = groq.DefaultModel
	}
	if s.maxTokens <= 0 {
		s.maxTokens = defaultMaxTokens
	}
	if s.historyLimit == 0 {
		s.historyLimit = defaultHistoryLimit
	}
	return s
}

// Prompt exposes the system prompt sent with every request.
func (s *Service) Prompt() string {
	return s.prompt
}

// Reply forwards the message with the trailing history window.
func (s *Service) Reply(ctx context.Context, req Request) (*Reply, error) {
	started := time.Now()

	if req.Message == "" {
		s.metrics.Observe(metrics.OutcomeInvalid, time.Since(started))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgMessageRequired)
	}
	if s.completer == nil {
		s.metrics.Observe(metrics.OutcomeUnavailable, time.Since(started))
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, MsgAPIKeyMissing)
	}

	completion, err := s.completer.Complete(ctx, groq.CompletionRequest{
		Model:       s.model,
		Messages:    s.messages(req),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		typed := pkgerrors.As(err)
		switch {
		case typed != nil && typed.Code() == pkgerrors.CodeUpstream:
			s.metrics.Observe(metrics.OutcomeUpstream, time.Since(started))
			s.logg.Warn(s.logg.WithField(ctx, "upstream_status", typed.HTTPStatus()), "chat.upstream_error")
			return nil, err
		case typed != nil && typed.Code() == pkgerrors.CodeDependency:
			s.metrics.Observe(metrics.OutcomeUnavailable, time.Since(started))
			return nil, err
		default:
			s.metrics.Observe(metrics.OutcomeUpstream, time.Since(started))
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgInternal)
		}
	}

	s.metrics.Observe(metrics.OutcomeOK, time.Since(started))
	text := completion.Content
	if text == "" {
		text = FallbackReply
	}
	return &Reply{Message: text, Model: completion.Model}, nil
}

// messages is system prompt, the last historyLimit valid turns, then the new
// user message. Client-supplied system and unknown-role turns are dropped
// before the window is taken, so the window counts forwarded turns only.
func (s *Service) messages(req Request) []groq.Message {
	history := make([]Turn, 0, len(req.History))
	for _, turn := range req.History {
		if turn.Role != enums.ChatRoleUser && turn.Role != enums.ChatRoleAssistant {
			continue
		}
		history = append(history, turn)
	}
	if s.historyLimit > 0 && len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}

	out := make([]groq.Message, 0, len(history)+2)
	out = append(out, groq.Message{Role: enums.ChatRoleSystem, Content: s.prompt})
	for _, turn := range history {
		out = append(out, groq.Message{Role: turn.Role, Content: turn.Content})
	}
	return append(out, groq.Message{Role: enums.ChatRoleUser, Content: req.Message})
}
