package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"slackbridge/internal/replywait"
	bridge "slackbridge/internal/slack"
)

func TestWaitForReplySuccess(t *testing.T) {
	waiter := &fakeWaiter{
		result: &replywait.Result{
			ThreadTS: "1700000001.000100",
			Reply:    &bridge.Message{TS: "1700000020.000000", Text: "A", User: "UHUMAN"},
			Elapsed:  28 * time.Second,
		},
	}
	tool := NewWaitForReplyTool(waiter, "CDEFAULT")

	call := ToolCall{Arguments: json.RawMessage(`{"message":"Pick A or B"}`)}
	result, err := tool.Execute(context.Background(), call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out struct {
		Success        bool            `json:"success"`
		ThreadTS       string          `json:"thread_ts"`
		Reply          *bridge.Message `json:"reply"`
		ElapsedSeconds float64         `json:"elapsed_seconds"`
	}
	if err := json.Unmarshal([]byte(result.Content), &out); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}

	if !out.Success {
		t.Error("expected success: true")
	}
	if out.Reply == nil || out.Reply.Text != "A" {
		t.Errorf("reply = %+v", out.Reply)
	}
	if out.ElapsedSeconds != 28 {
		t.Errorf("elapsed_seconds = %v, want 28", out.ElapsedSeconds)
	}

	// The engine received the defaulted channel and raw durations.
	if waiter.params.Channel != "CDEFAULT" {
		t.Errorf("engine channel = %q", waiter.params.Channel)
	}
	if waiter.params.Message != "Pick A or B" {
		t.Errorf("engine message = %q", waiter.params.Message)
	}
}

func TestWaitForReplyTimeout(t *testing.T) {
	waiter := &fakeWaiter{
		result: &replywait.Result{
			TimedOut: true,
			ThreadTS: "1700000001.000100",
			Elapsed:  15 * time.Minute,
			Timeout:  15 * time.Minute,
		},
	}
	tool := NewWaitForReplyTool(waiter, "CDEFAULT")

	call := ToolCall{Arguments: json.RawMessage(`{"thread_ts":"1700000001.000100"}`)}
	result, err := tool.Execute(context.Background(), call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("timeout is a completed outcome, not an error result")
	}

	var out struct {
		Success        bool   `json:"success"`
		Reason         string `json:"reason"`
		ThreadTS       string `json:"thread_ts"`
		TimeoutMinutes int    `json:"timeout_minutes"`
		Hint           string `json:"hint"`
	}
	if err := json.Unmarshal([]byte(result.Content), &out); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}

	if out.Success {
		t.Error("expected success: false")
	}
	if out.Reason != "timeout" {
		t.Errorf("reason = %q", out.Reason)
	}
	if out.TimeoutMinutes != 15 {
		t.Errorf("timeout_minutes = %d", out.TimeoutMinutes)
	}
	if !strings.Contains(out.Hint, "read_thread") {
		t.Errorf("hint should mention read_thread, got %q", out.Hint)
	}
}

func TestWaitForReplyParamMapping(t *testing.T) {
	waiter := &fakeWaiter{result: &replywait.Result{TimedOut: true, Timeout: time.Minute}}
	tool := NewWaitForReplyTool(waiter, "CDEFAULT")

	call := ToolCall{Arguments: json.RawMessage(`{"thread_ts":"1.0","poll_interval_seconds":5,"timeout_minutes":1}`)}
	if _, err := tool.Execute(context.Background(), call); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if waiter.params.PollInterval != 5*time.Second {
		t.Errorf("interval = %v", waiter.params.PollInterval)
	}
	if waiter.params.Timeout != time.Minute {
		t.Errorf("timeout = %v", waiter.params.Timeout)
	}
}

func TestWaitForReplyMissingTarget(t *testing.T) {
	waiter := &fakeWaiter{err: replywait.ErrMissingTarget}
	tool := NewWaitForReplyTool(waiter, "CDEFAULT")

	result, err := tool.Execute(context.Background(), ToolCall{Arguments: json.RawMessage(`{}`)})
	if err != nil {
		t.Fatalf("missing target must not be a fault: %v", err)
	}
	if result.IsError {
		t.Error("missing target is a plain-text result")
	}
	if !strings.Contains(result.Content, "thread_ts or message") {
		t.Errorf("content = %q", result.Content)
	}
}

func TestWaitForReplyMissingChannel(t *testing.T) {
	waiter := &fakeWaiter{}
	tool := NewWaitForReplyTool(waiter, "")

	result, err := tool.Execute(context.Background(), ToolCall{Arguments: json.RawMessage(`{"message":"hi"}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content != missingChannelText {
		t.Errorf("content = %q", result.Content)
	}
	if waiter.params.Channel != "" {
		t.Error("engine must not be invoked without a channel")
	}
}

func TestWaitForReplyUpstreamFault(t *testing.T) {
	upstream := errors.New("slack replies C1/1.0: rate_limited")
	waiter := &fakeWaiter{err: upstream}
	tool := NewWaitForReplyTool(waiter, "CDEFAULT")

	_, err := tool.Execute(context.Background(), ToolCall{Arguments: json.RawMessage(`{"thread_ts":"1.0"}`)})
	if !errors.Is(err, upstream) {
		t.Errorf("err = %v, want the upstream fault for the registry to convert", err)
	}
}
