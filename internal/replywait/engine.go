// Package replywait implements the bridge's blocking wait for a human
// reply in a Slack thread: start or resume a thread, poll it on a fixed
// interval, and return the first qualifying reply or a timeout outcome.
package replywait

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack"

	bridge "slackbridge/internal/slack"
)

// Defaults for unset Params fields.
const (
	DefaultPollInterval = 30 * time.Second
	DefaultTimeout      = 15 * time.Minute
)

var (
	// ErrMissingChannel means no channel was supplied or configured.
	ErrMissingChannel = errors.New("no channel specified and no default channel configured")
	// ErrMissingTarget means there is nothing to wait on and nothing to
	// post: the caller gave neither a thread nor a message.
	ErrMissingTarget = errors.New("either thread_ts or message is required")
)

// API is what the engine needs from the Slack client.
type API interface {
	Post(ctx context.Context, channel, threadTS, text string) (string, error)
	Replies(ctx context.Context, channel, threadTS string) ([]slack.Message, error)
	Resolve(ctx context.Context) bridge.Identity
}

// Params configures one wait session.
type Params struct {
	Channel      string
	ThreadTS     string // existing thread to resume; empty to start one
	Message      string // text to post before waiting; empty to only watch
	PollInterval time.Duration
	Timeout      time.Duration
}

// Result is the outcome of a wait session. Exactly one of Reply or
// TimedOut is meaningful; a timeout is a completed session, not an error.
type Result struct {
	TimedOut bool
	ThreadTS string
	Reply    *bridge.Message
	Elapsed  time.Duration
	Timeout  time.Duration // configured timeout, echoed on TimedOut
}

// state tracks where a session is in its lifecycle. Failed is reached by
// returning an error; Found and TimedOut by returning a Result.
type state int

const (
	stateStarting state = iota
	statePolling
	stateFound
	stateTimedOut
	stateFailed
)

// Engine runs wait sessions. Sessions share nothing; the engine itself
// is stateless apart from its dependencies.
type Engine struct {
	api    API
	logger *slog.Logger

	// injectable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures the Engine.
type Option func(*Engine)

// WithEngineLogger sets the structured logger.
func WithEngineLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithClock sets a custom time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithSleeper sets a custom delay function (for testing).
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Engine) {
		e.sleep = sleep
	}
}

// New creates an Engine over the given Slack API.
func New(api API, opts ...Option) *Engine {
	e := &Engine{
		api:    api,
		logger: slog.Default(),
		now:    time.Now,
		sleep:  ctxSleep,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ctxSleep waits for d or until ctx is cancelled.
func ctxSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// session holds the per-wait state the polling loop mutates.
type session struct {
	channel   string
	threadTS  string
	identity  bridge.Identity
	watermark float64
	start     time.Time
	reply     *bridge.Message
	logger    *slog.Logger
}

// Wait blocks until a qualifying reply appears in the target thread or
// the timeout elapses. A qualifying reply is newer than the watermark,
// not the thread parent, and not authored by the bridge itself. If
// multiple replies arrived since the last poll, the latest one wins.
//
// Any transport failure while posting or polling aborts the session with
// that error; it is never reported as a timeout. Cancelling ctx aborts
// the session between round trips and during poll delays.
func (e *Engine) Wait(ctx context.Context, p Params) (*Result, error) {
	if p.Channel == "" {
		return nil, ErrMissingChannel
	}
	if p.ThreadTS == "" && p.Message == "" {
		return nil, ErrMissingTarget
	}
	if p.PollInterval <= 0 {
		p.PollInterval = DefaultPollInterval
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}

	s := &session{
		channel: p.Channel,
		logger: e.logger.With(
			"session", uuid.NewString()[:8],
			"channel", p.Channel,
		),
	}

	st := stateStarting
	for {
		switch st {
		case stateStarting:
			if err := e.start(ctx, s, p); err != nil {
				s.logger.Error("wait failed to start", "error", err)
				return nil, err
			}
			st = statePolling

		case statePolling:
			if e.now().Sub(s.start) >= p.Timeout {
				st = stateTimedOut
				continue
			}
			if err := e.sleep(ctx, p.PollInterval); err != nil {
				return nil, err
			}
			reply, err := e.poll(ctx, s)
			if err != nil {
				s.logger.Error("wait aborted", "error", err)
				return nil, err
			}
			if reply != nil {
				s.reply = reply
				st = stateFound
			}

		case stateFound:
			elapsed := e.now().Sub(s.start)
			s.logger.Info("reply found", "thread", s.threadTS, "reply_ts", s.reply.TS, "elapsed", elapsed)
			return &Result{ThreadTS: s.threadTS, Reply: s.reply, Elapsed: elapsed}, nil

		case stateTimedOut:
			elapsed := e.now().Sub(s.start)
			s.logger.Info("wait timed out", "thread", s.threadTS, "elapsed", elapsed)
			return &Result{
				TimedOut: true,
				ThreadTS: s.threadTS,
				Elapsed:  elapsed,
				Timeout:  p.Timeout,
			}, nil
		}
	}
}

// start resolves identity, posts the initial message if given, and
// pins the watermark to the thread key.
func (e *Engine) start(ctx context.Context, s *session, p Params) error {
	// Best-effort: a zero identity disables self-filtering, which can
	// over-trigger on our own replies but never waits forever.
	s.identity = e.api.Resolve(ctx)

	s.threadTS = p.ThreadTS
	if p.Message != "" {
		ts, err := e.api.Post(ctx, s.channel, s.threadTS, p.Message)
		if err != nil {
			return err
		}
		if s.threadTS == "" {
			// The posted message roots a new thread.
			s.threadTS = ts
		}
	}

	s.watermark = bridge.ParseTS(s.threadTS)
	s.start = e.now()
	s.logger.Info("waiting for reply", "thread", s.threadTS, "interval", p.PollInterval, "timeout", p.Timeout)
	return nil
}

// poll fetches the thread once and returns the latest qualifying reply,
// or nil if none qualified. When nothing qualifies but the thread has
// messages, the watermark advances to the last message seen so the next
// poll does not re-examine it.
func (e *Engine) poll(ctx context.Context, s *session) (*bridge.Message, error) {
	msgs, err := e.api.Replies(ctx, s.channel, s.threadTS)
	if err != nil {
		return nil, err
	}

	var best *slack.Message
	for i := range msgs {
		m := &msgs[i]
		if m.Timestamp == s.threadTS {
			continue // thread parent
		}
		if s.identity.IsSelf(*m) {
			continue
		}
		if bridge.ParseTS(m.Timestamp) <= s.watermark {
			continue
		}
		if best == nil || bridge.ParseTS(m.Timestamp) > bridge.ParseTS(best.Timestamp) {
			best = m
		}
	}

	if best != nil {
		reply := bridge.Normalize(*best)
		return &reply, nil
	}

	if len(msgs) > 0 {
		last := bridge.ParseTS(msgs[len(msgs)-1].Timestamp)
		if last > s.watermark {
			s.watermark = last
		}
	}

	return nil, nil
}
