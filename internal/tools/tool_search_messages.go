package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	bridge "slackbridge/internal/slack"
)

// searchHistoryLimit bounds the history fetch a search scans.
const searchHistoryLimit = 100

// SearchMessagesTool finds messages matching a query within one channel.
// Bot tokens cannot call Slack's search API, so this fetches recent
// history and filters client-side; that is also why a channel is
// required.
type SearchMessagesTool struct {
	api            SlackAPI
	defaultChannel string
}

// NewSearchMessagesTool creates a SearchMessagesTool.
func NewSearchMessagesTool(api SlackAPI, defaultChannel string) *SearchMessagesTool {
	return &SearchMessagesTool{api: api, defaultChannel: defaultChannel}
}

type searchMessagesArgs struct {
	Query   string `json:"query"`
	Channel string `json:"channel"`
}

type searchMessagesResult struct {
	Query      string           `json:"query"`
	Channel    string           `json:"channel"`
	MatchCount int              `json:"match_count"`
	Matches    []bridge.Message `json:"matches"`
}

func (t *SearchMessagesTool) Name() string { return "search_messages" }

func (t *SearchMessagesTool) Description() string {
	return "Search recent messages in a channel for a text query"
}

func (t *SearchMessagesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "Text to search for (case-insensitive)"
			},
			"channel": {
				"type": "string",
				"description": "Channel ID (defaults to the configured channel)"
			}
		},
		"required": ["query"]
	}`)
}

func (t *SearchMessagesTool) Execute(ctx context.Context, call ToolCall) (ToolResult, error) {
	var args searchMessagesArgs
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		return ToolResult{Content: fmt.Sprintf("invalid arguments: %v", err), IsError: true}, nil
	}

	if args.Query == "" {
		return ToolResult{Content: "query is required", IsError: true}, nil
	}

	channel, ok := resolveChannel(args.Channel, t.defaultChannel)
	if !ok {
		return ToolResult{Content: missingChannelText}, nil
	}

	msgs, err := t.api.History(ctx, channel, "", searchHistoryLimit)
	if err != nil {
		return ToolResult{}, err
	}

	query := strings.ToLower(args.Query)
	var matches []bridge.Message
	for _, m := range bridge.FromHistory(msgs) {
		if strings.Contains(strings.ToLower(m.Text), query) {
			matches = append(matches, m)
		}
	}

	return textResult(searchMessagesResult{
		Query:      args.Query,
		Channel:    channel,
		MatchCount: len(matches),
		Matches:    matches,
	})
}
