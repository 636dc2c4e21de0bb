package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"slackbridge/internal/replywait"
	bridge "slackbridge/internal/slack"
)

// WaitForReplyTool blocks until a human replies in a thread or the
// timeout elapses. The long block is intentional: the MCP client holds
// this call open while a person types an answer in Slack.
type WaitForReplyTool struct {
	engine         Waiter
	defaultChannel string
}

// NewWaitForReplyTool creates a WaitForReplyTool.
func NewWaitForReplyTool(engine Waiter, defaultChannel string) *WaitForReplyTool {
	return &WaitForReplyTool{engine: engine, defaultChannel: defaultChannel}
}

type waitForReplyArgs struct {
	Channel             string `json:"channel"`
	ThreadTS            string `json:"thread_ts"`
	Message             string `json:"message"`
	PollIntervalSeconds int    `json:"poll_interval_seconds"`
	TimeoutMinutes      int    `json:"timeout_minutes"`
}

type waitSuccessResult struct {
	Success        bool            `json:"success"`
	ThreadTS       string          `json:"thread_ts"`
	Reply          *bridge.Message `json:"reply"`
	ElapsedSeconds float64         `json:"elapsed_seconds"`
}

type waitTimeoutResult struct {
	Success        bool   `json:"success"`
	Reason         string `json:"reason"`
	ThreadTS       string `json:"thread_ts"`
	TimeoutMinutes int    `json:"timeout_minutes"`
	Hint           string `json:"hint"`
}

func (t *WaitForReplyTool) Name() string { return "wait_for_reply" }

func (t *WaitForReplyTool) Description() string {
	return "Post a message (or watch an existing thread) and block until a human replies or the timeout elapses"
}

func (t *WaitForReplyTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"channel": {
				"type": "string",
				"description": "Channel ID (defaults to the configured channel)"
			},
			"thread_ts": {
				"type": "string",
				"description": "Existing thread to watch; omit to start a new one"
			},
			"message": {
				"type": "string",
				"description": "Message to post before waiting; omit to only watch"
			},
			"poll_interval_seconds": {
				"type": "integer",
				"description": "Seconds between polls (default 30)"
			},
			"timeout_minutes": {
				"type": "integer",
				"description": "Minutes to wait before giving up (default 15)"
			}
		}
	}`)
}

func (t *WaitForReplyTool) Execute(ctx context.Context, call ToolCall) (ToolResult, error) {
	var args waitForReplyArgs
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		return ToolResult{Content: fmt.Sprintf("invalid arguments: %v", err), IsError: true}, nil
	}

	channel, ok := resolveChannel(args.Channel, t.defaultChannel)
	if !ok {
		return ToolResult{Content: missingChannelText}, nil
	}

	timeout := time.Duration(args.TimeoutMinutes) * time.Minute

	result, err := t.engine.Wait(ctx, replywait.Params{
		Channel:      channel,
		ThreadTS:     args.ThreadTS,
		Message:      args.Message,
		PollInterval: time.Duration(args.PollIntervalSeconds) * time.Second,
		Timeout:      timeout,
	})
	if err != nil {
		if errors.Is(err, replywait.ErrMissingTarget) {
			return ToolResult{Content: "Either thread_ts or message is required: nothing to wait on and nothing to post."}, nil
		}
		return ToolResult{}, err
	}

	if result.TimedOut {
		return textResult(waitTimeoutResult{
			Success:        false,
			Reason:         "timeout",
			ThreadTS:       result.ThreadTS,
			TimeoutMinutes: int(result.Timeout / time.Minute),
			Hint:           "No reply arrived in time. The thread can still be inspected later with read_thread.",
		})
	}

	return textResult(waitSuccessResult{
		Success:        true,
		ThreadTS:       result.ThreadTS,
		Reply:          result.Reply,
		ElapsedSeconds: result.Elapsed.Seconds(),
	})
}
