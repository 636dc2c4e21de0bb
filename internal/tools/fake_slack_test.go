package tools

import (
	"context"
	"io"
	"strings"

	"github.com/slack-go/slack"

	"slackbridge/internal/replywait"
	bridge "slackbridge/internal/slack"
)

// fakeSlack implements SlackAPI with canned responses and call counters,
// shared by the tool tests.
type fakeSlack struct {
	identity bridge.Identity

	historyMsgs []slack.Message
	historyErr  error
	lastOldest  string
	lastLimit   int

	repliesMsgs []slack.Message
	repliesErr  error

	postTS       string
	postErr      error
	postChannel  string
	postThreadTS string
	postText     string

	file    *slack.File
	fileErr error
	body    string

	channels []slack.Channel

	calls int // total network-touching calls
}

func (f *fakeSlack) History(_ context.Context, _, oldest string, limit int) ([]slack.Message, error) {
	f.calls++
	f.lastOldest = oldest
	f.lastLimit = limit
	return f.historyMsgs, f.historyErr
}

func (f *fakeSlack) Replies(_ context.Context, _, _ string) ([]slack.Message, error) {
	f.calls++
	return f.repliesMsgs, f.repliesErr
}

func (f *fakeSlack) Post(_ context.Context, channel, threadTS, text string) (string, error) {
	f.calls++
	f.postChannel = channel
	f.postThreadTS = threadTS
	f.postText = text
	return f.postTS, f.postErr
}

func (f *fakeSlack) FileInfo(_ context.Context, _ string) (*slack.File, error) {
	f.calls++
	return f.file, f.fileErr
}

func (f *fakeSlack) Download(_ context.Context, _ string, w io.Writer) error {
	f.calls++
	_, err := io.Copy(w, strings.NewReader(f.body))
	return err
}

func (f *fakeSlack) Channels(_ context.Context, _ []string) ([]slack.Channel, error) {
	f.calls++
	return f.channels, nil
}

func (f *fakeSlack) Resolve(_ context.Context) bridge.Identity {
	return f.identity
}

// fakeWaiter records the params passed to Wait and returns a scripted
// result.
type fakeWaiter struct {
	params replywait.Params
	result *replywait.Result
	err    error
}

func (f *fakeWaiter) Wait(_ context.Context, p replywait.Params) (*replywait.Result, error) {
	f.params = p
	return f.result, f.err
}

func tsMsg(ts, user, text string) slack.Message {
	m := slack.Message{}
	m.Timestamp = ts
	m.User = user
	m.Text = text
	return m
}
