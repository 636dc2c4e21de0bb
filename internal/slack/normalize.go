package slack

import (
	"strconv"
	"time"

	"github.com/slack-go/slack"
)

// Message is the stable output shape the bridge returns to callers.
type Message struct {
	TS         string        `json:"ts"`
	Date       string        `json:"date"`
	Text       string        `json:"text"`
	User       string        `json:"user"`
	ThreadTS   string        `json:"thread_ts,omitempty"`
	ReplyCount int           `json:"reply_count,omitempty"`
	IsBot      *bool         `json:"is_bot,omitempty"`
	Files      []FileSummary `json:"files,omitempty"`
}

// FileSummary describes a file attached to a message.
type FileSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Mimetype   string `json:"mimetype"`
	Size       int    `json:"size"`
	URLPrivate string `json:"url_private"`
}

// ParseTS converts a Slack timestamp string ("1700000000.123456") to a
// float for ordering comparisons. Malformed timestamps parse as 0, which
// sorts them before everything real.
func ParseTS(ts string) float64 {
	f, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return 0
	}
	return f
}

// isoDate derives an ISO-8601 UTC date from a Slack timestamp. Slack
// timestamps are fractional seconds; multiply out to milliseconds so the
// sub-second part survives the conversion.
func isoDate(ts string) string {
	f := ParseTS(ts)
	if f == 0 {
		return ""
	}
	return time.UnixMilli(int64(f * 1000)).UTC().Format(time.RFC3339)
}

// FromHistory normalizes channel history messages and reverses them into
// chronological (oldest-first) order; Slack returns newest-first. Thread
// linkage and reply counts are preserved so callers can spot threads
// worth reading.
func FromHistory(msgs []slack.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		nm := normalize(m)
		nm.ThreadTS = m.ThreadTimestamp
		nm.ReplyCount = m.ReplyCount
		out = append(out, nm)
	}
	return out
}

// FromThread normalizes thread messages in platform order (parent first)
// and marks each one with whether it was authored by the given identity.
func FromThread(msgs []slack.Message, id Identity) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		nm := normalize(m)
		isBot := id.IsSelf(m) || m.BotID != ""
		nm.IsBot = &isBot
		out = append(out, nm)
	}
	return out
}

// Normalize maps a single raw message to the shared output shape, with
// none of the history- or thread-specific extras.
func Normalize(m slack.Message) Message {
	return normalize(m)
}

// normalize maps the fields every output shape shares.
func normalize(m slack.Message) Message {
	nm := Message{
		TS:   m.Timestamp,
		Date: isoDate(m.Timestamp),
		Text: m.Text,
		User: m.User,
	}
	for _, f := range m.Files {
		nm.Files = append(nm.Files, FileSummary{
			ID:         f.ID,
			Name:       f.Name,
			Mimetype:   f.Mimetype,
			Size:       f.Size,
			URLPrivate: f.URLPrivate,
		})
	}
	return nm
}
