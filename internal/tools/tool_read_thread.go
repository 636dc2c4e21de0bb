package tools

import (
	"context"
	"encoding/json"
	"fmt"

	bridge "slackbridge/internal/slack"
)

// ReadThreadTool fetches all messages in a thread, marking which ones
// were authored by the bridge itself.
type ReadThreadTool struct {
	api            SlackAPI
	defaultChannel string
}

// NewReadThreadTool creates a ReadThreadTool.
func NewReadThreadTool(api SlackAPI, defaultChannel string) *ReadThreadTool {
	return &ReadThreadTool{api: api, defaultChannel: defaultChannel}
}

type readThreadArgs struct {
	Channel  string `json:"channel"`
	ThreadTS string `json:"thread_ts"`
}

type readThreadResult struct {
	Channel    string           `json:"channel"`
	ThreadTS   string           `json:"thread_ts"`
	ReplyCount int              `json:"reply_count"`
	Messages   []bridge.Message `json:"messages"`
}

func (t *ReadThreadTool) Name() string { return "read_thread" }

func (t *ReadThreadTool) Description() string {
	return "Read all messages in a Slack thread, with an is_bot flag on each"
}

func (t *ReadThreadTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"channel": {
				"type": "string",
				"description": "Channel ID (defaults to the configured channel)"
			},
			"thread_ts": {
				"type": "string",
				"description": "Timestamp of the thread's parent message"
			}
		},
		"required": ["thread_ts"]
	}`)
}

func (t *ReadThreadTool) Execute(ctx context.Context, call ToolCall) (ToolResult, error) {
	var args readThreadArgs
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		return ToolResult{Content: fmt.Sprintf("invalid arguments: %v", err), IsError: true}, nil
	}

	if args.ThreadTS == "" {
		return ToolResult{Content: "thread_ts is required", IsError: true}, nil
	}

	channel, ok := resolveChannel(args.Channel, t.defaultChannel)
	if !ok {
		return ToolResult{Content: missingChannelText}, nil
	}

	identity := t.api.Resolve(ctx)

	msgs, err := t.api.Replies(ctx, channel, args.ThreadTS)
	if err != nil {
		return ToolResult{}, err
	}

	normalized := bridge.FromThread(msgs, identity)

	replyCount := len(normalized) - 1 // excludes the parent
	if replyCount < 0 {
		replyCount = 0
	}

	return textResult(readThreadResult{
		Channel:    channel,
		ThreadTS:   args.ThreadTS,
		ReplyCount: replyCount,
		Messages:   normalized,
	})
}
