package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bridge "slackbridge/internal/slack"
)

// ReadMessagesTool fetches recent channel history in chronological order.
type ReadMessagesTool struct {
	api            SlackAPI
	defaultChannel string
	now            func() time.Time // injectable for testing
}

// NewReadMessagesTool creates a ReadMessagesTool.
func NewReadMessagesTool(api SlackAPI, defaultChannel string) *ReadMessagesTool {
	return &ReadMessagesTool{api: api, defaultChannel: defaultChannel, now: time.Now}
}

type readMessagesArgs struct {
	Channel  string `json:"channel"`
	DaysBack int    `json:"days_back"`
	Oldest   string `json:"oldest"`
	Limit    int    `json:"limit"`
}

type readMessagesResult struct {
	Channel      string           `json:"channel"`
	MessageCount int              `json:"message_count"`
	Messages     []bridge.Message `json:"messages"`
}

func (t *ReadMessagesTool) Name() string { return "read_messages" }

func (t *ReadMessagesTool) Description() string {
	return "Read recent messages from a Slack channel, oldest first"
}

func (t *ReadMessagesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"channel": {
				"type": "string",
				"description": "Channel ID (defaults to the configured channel)"
			},
			"days_back": {
				"type": "integer",
				"description": "How many days of history to fetch (default 7)"
			},
			"oldest": {
				"type": "string",
				"description": "Explicit oldest timestamp; overrides days_back"
			},
			"limit": {
				"type": "integer",
				"description": "Maximum number of messages (default 100)"
			}
		}
	}`)
}

func (t *ReadMessagesTool) Execute(ctx context.Context, call ToolCall) (ToolResult, error) {
	var args readMessagesArgs
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		return ToolResult{Content: fmt.Sprintf("invalid arguments: %v", err), IsError: true}, nil
	}

	channel, ok := resolveChannel(args.Channel, t.defaultChannel)
	if !ok {
		return ToolResult{Content: missingChannelText}, nil
	}

	if args.DaysBack <= 0 {
		args.DaysBack = 7
	}
	if args.Limit <= 0 {
		args.Limit = 100
	}

	oldest := args.Oldest
	if oldest == "" {
		cutoff := t.now().Add(-time.Duration(args.DaysBack) * 24 * time.Hour)
		oldest = fmt.Sprintf("%.6f", float64(cutoff.UnixMilli())/1000)
	}

	msgs, err := t.api.History(ctx, channel, oldest, args.Limit)
	if err != nil {
		return ToolResult{}, err
	}

	normalized := bridge.FromHistory(msgs)
	return textResult(readMessagesResult{
		Channel:      channel,
		MessageCount: len(normalized),
		Messages:     normalized,
	})
}
