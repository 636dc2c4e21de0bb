// Package tools defines the tool interface, the registry that dispatches
// tool calls, and the nine Slack bridge tools.
package tools

import (
	"context"
	"encoding/json"
	"io"

	"github.com/slack-go/slack"

	"slackbridge/internal/replywait"
	bridge "slackbridge/internal/slack"
)

// ToolCall represents a tool invocation from the MCP client.
type ToolCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult is the output of a tool execution, returned to the MCP client
// as a single text payload.
type ToolResult struct {
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Tool is the interface all bridge tools implement.
type Tool interface {
	// Name returns the tool's unique identifier.
	Name() string
	// Description returns a human-readable description for the agent.
	Description() string
	// Parameters returns the JSON Schema for the tool's arguments.
	Parameters() json.RawMessage
	// Execute runs the tool. A returned error is an upstream fault; the
	// registry converts it into an error-text result. Negative outcomes
	// that are not faults (missing channel, timeout) are ToolResults.
	Execute(ctx context.Context, call ToolCall) (ToolResult, error)
}

// SlackAPI is what the tools need from the Slack client.
type SlackAPI interface {
	History(ctx context.Context, channel, oldest string, limit int) ([]slack.Message, error)
	Replies(ctx context.Context, channel, threadTS string) ([]slack.Message, error)
	Post(ctx context.Context, channel, threadTS, text string) (string, error)
	FileInfo(ctx context.Context, fileID string) (*slack.File, error)
	Download(ctx context.Context, downloadURL string, w io.Writer) error
	Channels(ctx context.Context, types []string) ([]slack.Channel, error)
	Resolve(ctx context.Context) bridge.Identity
}

// Waiter runs blocking reply-wait sessions.
type Waiter interface {
	Wait(ctx context.Context, p replywait.Params) (*replywait.Result, error)
}

// missingChannelText is the plain-text result for calls that need a
// channel when neither the argument nor the configured default is set.
// Not a fault: no "Error:" prefix, no network call issued.
const missingChannelText = "No channel specified and no default channel configured. Pass a channel argument or set SLACK_CHANNEL_ID."

// resolveChannel picks the explicit channel argument over the configured
// default. The second return is false when neither is set.
func resolveChannel(explicit, fallback string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if fallback != "" {
		return fallback, true
	}
	return "", false
}

// textResult renders v as the tool's single pretty-printed text payload.
// Field order in the result structs is the field order on the wire.
func textResult(v any) (ToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, err
	}
	return ToolResult{Content: string(data)}, nil
}
