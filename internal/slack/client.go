// Package slack wraps the Slack Web API for the bridge: history and
// thread reads, message posting, file metadata and download, channel
// listing, plus self-identity resolution and message normalization.
//
// Every operation is a single request/response round trip. There are no
// retries and no backoff; a transport failure surfaces to the caller as-is.
package slack

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/slack-go/slack"
)

// webAPI is the subset of *slack.Client the bridge uses. Kept as an
// interface so tests can fake the wire.
type webAPI interface {
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	GetFileInfoContext(ctx context.Context, fileID string, count, page int) (*slack.File, []slack.Comment, *slack.Paging, error)
	GetFileContext(ctx context.Context, downloadURL string, writer io.Writer) error
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error)
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}

// Client is a thin adapter over the Slack Web API.
type Client struct {
	api    webAPI
	logger *slog.Logger

	// identity cache, written once on first successful auth.test.
	idMu       sync.Mutex
	idResolved bool
	identity   Identity
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// withAPI replaces the underlying API client (tests only).
func withAPI(api webAPI) ClientOption {
	return func(c *Client) {
		c.api = api
	}
}

// NewClient creates a client bound to the given xoxb- bot token.
func NewClient(botToken string, opts ...ClientOption) *Client {
	c := &Client{
		api:    slack.New(botToken),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// History fetches channel history, newest-first as Slack returns it.
// oldest is a Slack timestamp string; empty means no lower bound.
func (c *Client) History(ctx context.Context, channel, oldest string, limit int) ([]slack.Message, error) {
	params := &slack.GetConversationHistoryParameters{
		ChannelID: channel,
		Oldest:    oldest,
		Limit:     limit,
	}

	resp, err := c.api.GetConversationHistoryContext(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("slack history %s: %w", channel, err)
	}

	c.logger.Debug("fetched history", "channel", channel, "count", len(resp.Messages))
	return resp.Messages, nil
}

// Replies fetches the full reply list for a thread. The parent message is
// first in the returned slice, per the platform's ordering.
func (c *Client) Replies(ctx context.Context, channel, threadTS string) ([]slack.Message, error) {
	params := &slack.GetConversationRepliesParameters{
		ChannelID: channel,
		Timestamp: threadTS,
	}

	msgs, _, _, err := c.api.GetConversationRepliesContext(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("slack replies %s/%s: %w", channel, threadTS, err)
	}

	c.logger.Debug("fetched thread", "channel", channel, "thread", threadTS, "count", len(msgs))
	return msgs, nil
}

// Post sends a message to a channel and returns the new message's
// timestamp. A non-empty threadTS makes it a thread reply.
func (c *Client) Post(ctx context.Context, channel, threadTS, text string) (string, error) {
	opts := []slack.MsgOption{
		slack.MsgOptionText(text, false),
	}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}

	_, ts, err := c.api.PostMessageContext(ctx, channel, opts...)
	if err != nil {
		return "", fmt.Errorf("slack post to %s: %w", channel, err)
	}

	c.logger.Info("posted message", "channel", channel, "ts", ts, "thread", threadTS)
	return ts, nil
}

// FileInfo fetches metadata for a single file.
func (c *Client) FileInfo(ctx context.Context, fileID string) (*slack.File, error) {
	file, _, _, err := c.api.GetFileInfoContext(ctx, fileID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("slack file info %s: %w", fileID, err)
	}
	return file, nil
}

// Download streams a file's private URL into w, authorizing with the
// bound bot token.
func (c *Client) Download(ctx context.Context, downloadURL string, w io.Writer) error {
	if err := c.api.GetFileContext(ctx, downloadURL, w); err != nil {
		return fmt.Errorf("slack download: %w", err)
	}
	return nil
}

// Channels lists conversations of the given types, skipping archived ones.
func (c *Client) Channels(ctx context.Context, types []string) ([]slack.Channel, error) {
	params := &slack.GetConversationsParameters{
		Types:           types,
		ExcludeArchived: true,
		Limit:           200,
	}

	channels, _, err := c.api.GetConversationsContext(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("slack channel list: %w", err)
	}

	c.logger.Debug("listed channels", "count", len(channels))
	return channels, nil
}
