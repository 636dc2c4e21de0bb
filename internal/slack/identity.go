package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Identity is the actor bound to the bridge's bot token, used to tell the
// bridge's own messages apart from human replies.
type Identity struct {
	UserID string
	BotID  string
}

// Known reports whether the identity was actually resolved. A zero
// identity means callers cannot distinguish self-authored messages and
// must treat every message as a candidate.
func (id Identity) Known() bool {
	return id.UserID != "" || id.BotID != ""
}

// IsSelf reports whether the message was authored by this identity.
// Always false for an unresolved identity.
func (id Identity) IsSelf(m slack.Message) bool {
	if !id.Known() {
		return false
	}
	if m.User != "" && m.User == id.UserID {
		return true
	}
	return m.BotID != "" && m.BotID == id.BotID
}

// Resolve returns the bot's own identity via auth.test. The first
// successful lookup is cached for the process lifetime; later calls
// return the cached value without touching the network. A failed lookup
// is logged, not cached, and yields a zero Identity — reply detection
// degrades to treating every non-parent message as a candidate, which
// over-triggers rather than waiting forever.
func (c *Client) Resolve(ctx context.Context) Identity {
	c.idMu.Lock()
	defer c.idMu.Unlock()

	if c.idResolved {
		return c.identity
	}

	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		c.logger.Warn("auth.test failed, self-identification unavailable", "error", err)
		return Identity{}
	}

	c.identity = Identity{UserID: resp.UserID, BotID: resp.BotID}
	c.idResolved = true
	c.logger.Info("resolved self identity", "user_id", c.identity.UserID, "bot_id", c.identity.BotID)
	return c.identity
}
