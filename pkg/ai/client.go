package ai

import (
	"context"
	"io"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// TokenStream is a finite, non-restartable sequence of text fragments.
// Recv returns io.EOF after the final fragment. Close releases the
// underlying stream and is safe after EOF.
type TokenStream interface {
	Recv() (string, error)
	Close()
}

// Generator is the contract the chat pipeline consumes. Respond returns
// (text, true) on success and ("", false) on any provider failure, so the
// caller can substitute fallback output without branching on error kinds.
type Generator interface {
	Available() bool
	Respond(ctx context.Context, prompt string) (string, bool)
	Stream(ctx context.Context, prompt string) (TokenStream, error)
}

// Client binds one settings snapshot to a concrete provider. Construct one
// per request so admin settings changes take effect without a restart.
type Client struct {
	provider Provider
	settings Settings
	model    model.BaseChatModel
}

// NewClient resolves the provider and builds its chat model. A resolution
// of none is not an error: the returned client reports unavailable and the
// caller uses its fallback path.
func NewClient(ctx context.Context, s Settings) (*Client, error) {
	p := s.Resolve()
	c := &Client{provider: p, settings: s}
	if p == ProviderNone {
		return c, nil
	}
	m, err := newChatModel(ctx, p, s)
	if err != nil {
		return nil, err
	}
	c.model = m
	return c, nil
}

func (c *Client) Available() bool {
	return c.provider != ProviderNone && c.model != nil
}

func (c *Client) Provider() Provider {
	return c.provider
}

func (c *Client) options() []model.Option {
	opts := []model.Option{}
	if c.settings.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(c.settings.MaxTokens))
	}
	temp := c.settings.Temperature
	opts = append(opts, model.WithTemperature(temp))
	return opts
}

// Respond issues a single non-streaming completion.
func (c *Client) Respond(ctx context.Context, prompt string) (string, bool) {
	if !c.Available() {
		return "", false
	}
	messages := []*schema.Message{{Role: schema.User, Content: prompt}}
	resp, err := c.model.Generate(ctx, messages, c.options()...)
	if err != nil {
		return "", false
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", false
	}
	return text, true
}

// Stream opens a token stream for the prompt.
func (c *Client) Stream(ctx context.Context, prompt string) (TokenStream, error) {
	if !c.Available() {
		return nil, io.ErrUnexpectedEOF
	}
	messages := []*schema.Message{{Role: schema.User, Content: prompt}}
	reader, err := c.model.Stream(ctx, messages, c.options()...)
	if err != nil {
		return nil, err
	}
	return &einoStream{reader: reader}, nil
}

type einoStream struct {
	reader *schema.StreamReader[*schema.Message]
}

func (s *einoStream) Recv() (string, error) {
	for {
		chunk, err := s.reader.Recv()
		if err != nil {
			return "", err
		}
		if chunk.Content != "" {
			return chunk.Content, nil
		}
		// role-only or tool-call chunks carry no text, skip them
	}
}

func (s *einoStream) Close() {
	s.reader.Close()
}
