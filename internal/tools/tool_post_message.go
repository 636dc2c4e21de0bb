package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// PostMessageTool posts a new top-level message to a channel.
type PostMessageTool struct {
	api            SlackAPI
	defaultChannel string
}

// NewPostMessageTool creates a PostMessageTool.
func NewPostMessageTool(api SlackAPI, defaultChannel string) *PostMessageTool {
	return &PostMessageTool{api: api, defaultChannel: defaultChannel}
}

type postMessageArgs struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type postMessageResult struct {
	Channel string `json:"channel"`
	TS      string `json:"ts"`
	Text    string `json:"text"`
	Hint    string `json:"hint"`
}

func (t *PostMessageTool) Name() string { return "post_message" }

func (t *PostMessageTool) Description() string {
	return "Post a message to a Slack channel"
}

func (t *PostMessageTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"channel": {
				"type": "string",
				"description": "Channel ID (defaults to the configured channel)"
			},
			"text": {
				"type": "string",
				"description": "Message text to post"
			}
		},
		"required": ["text"]
	}`)
}

func (t *PostMessageTool) Execute(ctx context.Context, call ToolCall) (ToolResult, error) {
	var args postMessageArgs
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		return ToolResult{Content: fmt.Sprintf("invalid arguments: %v", err), IsError: true}, nil
	}

	if args.Text == "" {
		return ToolResult{Content: "text is required", IsError: true}, nil
	}

	channel, ok := resolveChannel(args.Channel, t.defaultChannel)
	if !ok {
		return ToolResult{Content: missingChannelText}, nil
	}

	ts, err := t.api.Post(ctx, channel, "", args.Text)
	if err != nil {
		return ToolResult{}, err
	}

	return textResult(postMessageResult{
		Channel: channel,
		TS:      ts,
		Text:    args.Text,
		Hint:    fmt.Sprintf("Use wait_for_reply with thread_ts=%s to wait for responses", ts),
	})
}
