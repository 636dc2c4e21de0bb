package slack

import (
	"testing"

	"github.com/slack-go/slack"
)

func msg(ts, user, text string) slack.Message {
	m := slack.Message{}
	m.Timestamp = ts
	m.User = user
	m.Text = text
	return m
}

func TestParseTS(t *testing.T) {
	tests := []struct {
		ts   string
		want float64
	}{
		{"1700000000.000100", 1700000000.0001},
		{"0", 0},
		{"", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		if got := ParseTS(tt.ts); got != tt.want {
			t.Errorf("ParseTS(%q) = %v, want %v", tt.ts, got, tt.want)
		}
	}
}

func TestIsoDate(t *testing.T) {
	// 2023-11-14T22:13:20Z
	got := isoDate("1700000000.500000")
	want := "2023-11-14T22:13:20Z"
	if got != want {
		t.Errorf("isoDate = %q, want %q", got, want)
	}

	if isoDate("not-a-ts") != "" {
		t.Errorf("expected empty date for malformed timestamp")
	}
}

func TestFromHistoryChronologicalOrder(t *testing.T) {
	// Slack returns newest-first; output must be oldest-first.
	raw := []slack.Message{
		msg("1700000300.000000", "U1", "third"),
		msg("1700000200.000000", "U2", "second"),
		msg("1700000100.000000", "U1", "first"),
	}

	out := FromHistory(raw)

	if len(out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out))
	}
	wantOrder := []string{"first", "second", "third"}
	for i, want := range wantOrder {
		if out[i].Text != want {
			t.Errorf("position %d: got %q, want %q", i, out[i].Text, want)
		}
	}
	for i := 1; i < len(out); i++ {
		if ParseTS(out[i].TS) < ParseTS(out[i-1].TS) {
			t.Errorf("output not chronological at position %d", i)
		}
	}
}

func TestFromHistoryThreadFields(t *testing.T) {
	m := msg("1700000100.000000", "U1", "parent")
	m.ThreadTimestamp = "1700000100.000000"
	m.ReplyCount = 4

	out := FromHistory([]slack.Message{m})

	if out[0].ThreadTS != "1700000100.000000" {
		t.Errorf("ThreadTS = %q, want parent ts", out[0].ThreadTS)
	}
	if out[0].ReplyCount != 4 {
		t.Errorf("ReplyCount = %d, want 4", out[0].ReplyCount)
	}
	if out[0].IsBot != nil {
		t.Error("history messages should not carry is_bot")
	}
}

func TestFromThreadSelfFlag(t *testing.T) {
	id := Identity{UserID: "UBOT", BotID: "B001"}

	botMsg := msg("1700000100.000000", "UBOT", "question?")
	humanMsg := msg("1700000200.000000", "UHUMAN", "answer")

	out := FromThread([]slack.Message{botMsg, humanMsg}, id)

	if out[0].IsBot == nil || !*out[0].IsBot {
		t.Error("bot message should be marked is_bot: true")
	}
	if out[1].IsBot == nil || *out[1].IsBot {
		t.Error("human message should be marked is_bot: false")
	}
}

func TestFromThreadUnknownIdentity(t *testing.T) {
	// Unresolved identity: only messages with a bot_id are flagged.
	human := msg("1700000200.000000", "UHUMAN", "hi")
	appMsg := msg("1700000300.000000", "", "automated")
	appMsg.BotID = "B999"

	out := FromThread([]slack.Message{human, appMsg}, Identity{})

	if *out[0].IsBot {
		t.Error("human message flagged as bot with unknown identity")
	}
	if !*out[1].IsBot {
		t.Error("bot_id message should be flagged even with unknown identity")
	}
}

func TestNormalizeFiles(t *testing.T) {
	m := msg("1700000100.000000", "U1", "see attached")
	m.Files = []slack.File{
		{ID: "F1", Name: "report.pdf", Mimetype: "application/pdf", Size: 1024, URLPrivate: "https://files.slack.com/F1"},
	}

	out := Normalize(m)

	if len(out.Files) != 1 {
		t.Fatalf("expected 1 file summary, got %d", len(out.Files))
	}
	f := out.Files[0]
	if f.ID != "F1" || f.Name != "report.pdf" || f.Mimetype != "application/pdf" || f.Size != 1024 {
		t.Errorf("file summary mismatch: %+v", f)
	}
}
