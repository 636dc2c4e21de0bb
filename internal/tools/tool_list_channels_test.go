package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/slack-go/slack"
)

func testChannel(id, name string, private bool, members int) slack.Channel {
	ch := slack.Channel{}
	ch.ID = id
	ch.Name = name
	ch.IsPrivate = private
	ch.NumMembers = members
	return ch
}

func TestListChannels(t *testing.T) {
	fake := &fakeSlack{
		channels: []slack.Channel{
			testChannel("C1", "general", false, 42),
			testChannel("C2", "agents", true, 3),
		},
	}
	tool := NewListChannelsTool(fake)

	result, err := tool.Execute(context.Background(), ToolCall{Arguments: json.RawMessage(`{}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out struct {
		ChannelCount int `json:"channel_count"`
		Channels     []struct {
			ID         string `json:"id"`
			Name       string `json:"name"`
			IsPrivate  bool   `json:"is_private"`
			NumMembers int    `json:"num_members"`
		} `json:"channels"`
	}
	if err := json.Unmarshal([]byte(result.Content), &out); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}

	if out.ChannelCount != 2 {
		t.Errorf("channel_count = %d", out.ChannelCount)
	}
	if out.Channels[1].Name != "agents" || !out.Channels[1].IsPrivate || out.Channels[1].NumMembers != 3 {
		t.Errorf("channel = %+v", out.Channels[1])
	}
}
