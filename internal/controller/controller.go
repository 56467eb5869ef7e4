// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/livechat/internal/completion"
	"github.com/jeranaias/livechat/internal/model"
	"github.com/jeranaias/livechat/internal/session"
)

// =============================================================================
// TYPES
// =============================================================================

// ErrorSink receives every failed completion.
type ErrorSink interface {
	ReportError(err error)
}

// Request is a user message that has been appended and awaits a reply.
type Request struct {
	ChatID   string
	Prompt   string
	IssuedAt time.Time

	token uint64
}

// Result is the outcome of resolving a Request.
type Result struct {
	Request Request
	Reply   string
	Err     error
	Latency time.Duration
}

// View is a read-only snapshot for rendering.
type View struct {
	Active     []model.Chat
	Archived   []model.Chat
	Current    model.Chat
	HasCurrent bool
	Loading    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithSink sets the error sink. The default discards.
func WithSink(sink ErrorSink) Option {
	return func(c *Controller) {
		if sink != nil {
			c.sink = sink
		}
	}
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each completion call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithClock sets the time source for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

type discardSink struct{}

func (discardSink) ReportError(error) {}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller mediates between the presentation layer, the session store,
// and the completion client. It is safe for concurrent use.
type Controller struct {
	store   *session.Store
	client  completion.Client
	sink    ErrorSink
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time

	mu        sync.Mutex
	draft     string
	pending   map[uint64]struct{}
	nextToken uint64
	watchers  []loadingWatcher
	nextWatch uint64
}

type loadingWatcher struct {
	id uint64
	fn func(bool)
}

// New creates a controller over store and client.
func New(store *session.Store, client completion.Client, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		client:  client,
		sink:    discardSink{},
		logger:  zap.NewNop(),
		now:     time.Now,
		pending: make(map[uint64]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the underlying session store.
func (c *Controller) Store() *session.Store {
	return c.store
}

// =============================================================================
// INTENTS
// =============================================================================

// StartNewChat creates and selects a new chat, clears the draft, and resets
// the loading flag. In-flight requests are not cancelled; their replies still
// land in the chats they were issued from.
func (c *Controller) StartNewChat() model.Chat {
	chat := c.store.CreateChat()

	c.mu.Lock()
	wasLoading := len(c.pending) > 0
	c.draft = ""
	c.pending = make(map[uint64]struct{})
	watchers := c.watchersLocked(wasLoading)
	c.mu.Unlock()

	notifyLoading(watchers, false)
	c.logger.Debug("Started new chat", zap.String("chat", chat.ID), zap.String("name", chat.Name))
	return chat
}

// SelectChat makes the chat with the given id current. Unknown ids are ignored.
func (c *Controller) SelectChat(id string) bool {
	ok := c.store.SelectChat(id)
	if !ok {
		c.logger.Debug("Ignored selection of unknown chat", zap.String("chat", id))
	}
	return ok
}

// SetDraft stores the pending input text.
func (c *Controller) SetDraft(s string) {
	c.mu.Lock()
	c.draft = s
	c.mu.Unlock()
}

// Draft returns the pending input text.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// IsLoading reports whether any request is awaiting a reply.
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending) > 0
}

// OnLoadingChange registers fn to be called whenever the loading flag flips.
func (c *Controller) OnLoadingChange(fn func(bool)) (cancel func()) {
	c.mu.Lock()
	id := c.nextWatch
	c.nextWatch++
	c.watchers = append(c.watchers, loadingWatcher{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, w := range c.watchers {
				if w.id == id {
					c.watchers = append(c.watchers[:i:i], c.watchers[i+1:]...)
					return
				}
			}
		})
	}
}

// View returns a snapshot of everything the presentation layer renders.
func (c *Controller) View() View {
	snap := c.store.Snapshot()
	return View{
		Active:     snap.Active,
		Archived:   snap.Archived,
		Current:    snap.Current,
		HasCurrent: snap.HasCurrent,
		Loading:    c.IsLoading(),
	}
}

// =============================================================================
// SEND
// =============================================================================

// SendMessage sends text from the current chat and waits for the reply.
// It returns false when text is blank or there is no current chat, in which
// case nothing changes.
func (c *Controller) SendMessage(ctx context.Context, text string) bool {
	req, ok := c.Begin(text)
	if !ok {
		return false
	}
	c.Apply(c.Resolve(ctx, req))
	return true
}

// Begin appends text as a user message to the current chat, clears the
// draft, and sets the loading flag. Blank text or a missing current chat is
// a silent no-op reported as false.
func (c *Controller) Begin(text string) (Request, bool) {
	if strings.TrimSpace(text) == "" {
		return Request{}, false
	}
	chat, ok := c.store.CurrentChat()
	if !ok {
		return Request{}, false
	}

	now := c.now()
	msg, err := model.NewMessageAt(model.SenderUser, text, now)
	if err != nil {
		return Request{}, false
	}
	if err := c.store.AppendMessage(chat.ID, msg); err != nil {
		// current chat vanished between the read and the append
		c.logger.Warn("Failed to append user message", zap.String("chat", chat.ID), zap.Error(err))
		return Request{}, false
	}

	c.mu.Lock()
	wasLoading := len(c.pending) > 0
	token := c.nextToken
	c.nextToken++
	c.pending[token] = struct{}{}
	c.draft = ""
	var watchers []func(bool)
	if !wasLoading {
		watchers = c.watchersLocked(true)
	}
	c.mu.Unlock()

	notifyLoading(watchers, true)
	c.logger.Debug("Sending message",
		zap.String("chat", chat.ID),
		zap.String("message", msg.ID),
		zap.Int("length", len(text)))

	return Request{
		ChatID:   chat.ID,
		Prompt:   text,
		IssuedAt: now,
		token:    token,
	}, true
}

// Resolve calls the completion client for req. It never touches the store,
// so it may run on any goroutine.
func (c *Controller) Resolve(ctx context.Context, req Request) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := c.client.Generate(ctx, req.Prompt)
	res := Result{Request: req, Reply: reply, Latency: time.Since(start)}

	switch {
	case err != nil:
		res.Err = asCompletionError(err)
	case reply == "":
		res.Err = &completion.Error{Provider: "client", Kind: completion.KindMalformed, Message: "empty reply"}
	}
	if res.Err != nil {
		res.Reply = ""
	}
	return res
}

// Apply records the outcome of a resolved request. A reply is appended to
// the originating chat; a failure is reported to the sink and nothing is
// appended. The loading flag is cleared either way.
func (c *Controller) Apply(res Result) {
	defer c.finish(res.Request.token)

	if res.Err != nil {
		c.sink.ReportError(res.Err)
		c.logger.Warn("Completion failed",
			zap.String("chat", res.Request.ChatID),
			zap.Duration("latency", res.Latency),
			zap.Error(res.Err))
		return
	}

	msg, err := model.NewMessageAt(model.SenderAssistant, res.Reply, c.now())
	if err != nil {
		c.sink.ReportError(err)
		return
	}

	if err := c.store.AppendMessage(res.Request.ChatID, msg); err != nil {
		if session.IsChatNotFound(err) {
			c.logger.DPanic("Reply for unknown chat", zap.String("chat", res.Request.ChatID), zap.Error(err))
			return
		}
		c.logger.Error("Failed to append reply", zap.String("chat", res.Request.ChatID), zap.Error(err))
		return
	}

	c.logger.Debug("Received reply",
		zap.String("chat", res.Request.ChatID),
		zap.Duration("latency", res.Latency),
		zap.Int("length", len(res.Reply)))
}

// finish removes token from the pending set.
func (c *Controller) finish(token uint64) {
	c.mu.Lock()
	if _, ok := c.pending[token]; !ok {
		// already cleared by StartNewChat
		c.mu.Unlock()
		return
	}
	delete(c.pending, token)
	var watchers []func(bool)
	if len(c.pending) == 0 {
		watchers = c.watchersLocked(true)
	}
	c.mu.Unlock()

	notifyLoading(watchers, false)
}

// watchersLocked returns the watcher callbacks when changed is true.
func (c *Controller) watchersLocked(changed bool) []func(bool) {
	if !changed || len(c.watchers) == 0 {
		return nil
	}
	fns := make([]func(bool), len(c.watchers))
	for i, w := range c.watchers {
		fns[i] = w.fn
	}
	return fns
}

func notifyLoading(fns []func(bool), loading bool) {
	for _, fn := range fns {
		fn(loading)
	}
}

func asCompletionError(err error) error {
	var cerr *completion.Error
	if errors.As(err, &cerr) {
		return err
	}
	kind := completion.KindUnknown
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kind = completion.KindNetwork
	}
	return &completion.Error{Provider: "client", Kind: kind, Message: "generate failed", Cause: err}
}
