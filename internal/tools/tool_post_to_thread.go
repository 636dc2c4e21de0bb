package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// PostToThreadTool posts a reply into an existing thread.
type PostToThreadTool struct {
	api            SlackAPI
	defaultChannel string
}

// NewPostToThreadTool creates a PostToThreadTool.
func NewPostToThreadTool(api SlackAPI, defaultChannel string) *PostToThreadTool {
	return &PostToThreadTool{api: api, defaultChannel: defaultChannel}
}

type postToThreadArgs struct {
	Channel  string `json:"channel"`
	ThreadTS string `json:"thread_ts"`
	Text     string `json:"text"`
}

type postToThreadResult struct {
	Channel  string `json:"channel"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts"`
	Text     string `json:"text"`
}

func (t *PostToThreadTool) Name() string { return "post_to_thread" }

func (t *PostToThreadTool) Description() string {
	return "Post a reply to an existing Slack thread"
}

func (t *PostToThreadTool) Parameters() json.RawMessage {
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
			},
			"text": {
				"type": "string",
				"description": "Reply text to post"
			}
		},
		"required": ["thread_ts", "text"]
	}`)
}

func (t *PostToThreadTool) Execute(ctx context.Context, call ToolCall) (ToolResult, error) {
	var args postToThreadArgs
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		return ToolResult{Content: fmt.Sprintf("invalid arguments: %v", err), IsError: true}, nil
	}

	if args.ThreadTS == "" {
		return ToolResult{Content: "thread_ts is required", IsError: true}, nil
	}
	if args.Text == "" {
		return ToolResult{Content: "text is required", IsError: true}, nil
	}

	channel, ok := resolveChannel(args.Channel, t.defaultChannel)
	if !ok {
		return ToolResult{Content: missingChannelText}, nil
	}

	ts, err := t.api.Post(ctx, channel, args.ThreadTS, args.Text)
	if err != nil {
		return ToolResult{}, err
	}

	return textResult(postToThreadResult{
		Channel:  channel,
		TS:       ts,
		ThreadTS: args.ThreadTS,
		Text:     args.Text,
	})
}
