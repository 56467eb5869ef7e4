// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the in-memory chat session state.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jeranaias/livechat/internal/model"
)

// =============================================================================
// ARCHIVE POLICY
// =============================================================================

// ArchivePolicy decides what CreateChat does with the outgoing current chat.
type ArchivePolicy int

const (
	// ArchiveCopy copies the outgoing chat into history and keeps it active.
	ArchiveCopy ArchivePolicy = iota
	// ArchiveMove removes the outgoing chat from the active list.
	ArchiveMove
)

// String returns the config spelling of the policy.
func (p ArchivePolicy) String() string {
	switch p {
	case ArchiveMove:
		return "move"
	default:
		return "copy"
	}
}

// ParseArchivePolicy parses "copy" or "move" (case-insensitive).
func ParseArchivePolicy(s string) (ArchivePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "copy":
		return ArchiveCopy, nil
	case "move":
		return ArchiveMove, nil
	default:
		return ArchiveCopy, fmt.Errorf("invalid archive policy %q, must be one of: copy, move", s)
	}
}

// =============================================================================
// STORE
// =============================================================================

// Store owns the chat collections and the current-chat selection.
//
// Invariants:
//   - currentID, when non-empty, names a chat in active.
//   - ids are unique within active and within archived.
//   - under ArchiveMove a chat is in at most one of the two collections.
//
// The Store is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	active    []model.Chat
	archived  []model.Chat
	currentID string
	policy    ArchivePolicy

	listeners    []listenerEntry
	nextListener int
}

type listenerEntry struct {
	id int
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithArchivePolicy sets the archive policy (default ArchiveCopy).
func WithArchivePolicy(p ArchivePolicy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// NewStore creates a store holding one empty default chat, which is current.
func NewStore(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}

	first := model.NewChat(model.DefaultChatName(1))
	s.active = []model.Chat{first}
	s.currentID = first.ID
	return s
}

// Policy returns the store's archive policy.
func (s *Store) Policy() ArchivePolicy {
	return s.policy
}

// =============================================================================
// READ ACCESS
// =============================================================================

// ListActiveChats returns a copy of the active chats in creation order.
func (s *Store) ListActiveChats() []model.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneChats(s.active)
}

// ListArchivedChats returns a copy of the archived chats in archive order.
func (s *Store) ListArchivedChats() []model.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneChats(s.archived)
}

// CurrentChatID returns the id of the current chat, or "" if there is none.
func (s *Store) CurrentChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// CurrentChat returns a copy of the current chat.
func (s *Store) CurrentChat() (model.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

// Chat looks up a chat by id in either collection, preferring the active one.
func (s *Store) Chat(id string) (model.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.active, id); i >= 0 {
		return s.active[i].Clone(), true
	}
	if i := indexOf(s.archived, id); i >= 0 {
		return s.archived[i].Clone(), true
	}
	return model.Chat{}, false
}

// Snapshot is a consistent read-only view of the whole store.
type Snapshot struct {
	Active     []model.Chat
	Archived   []model.Chat
	Current    model.Chat
	HasCurrent bool
}

// Snapshot returns all collections and the current chat under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.currentLocked()
	return Snapshot{
		Active:     cloneChats(s.active),
		Archived:   cloneChats(s.archived),
		Current:    cur,
		HasCurrent: ok,
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// SelectChat makes the chat with the given id current.
//
// An archived chat that is no longer active (ArchiveMove) is restored to the
// end of the active list first. Unknown ids are ignored and reported as false.
func (s *Store) SelectChat(id string) bool {
	s.mu.Lock()
	var events []Event

	switch {
	case indexOf(s.active, id) >= 0:
		if s.currentID != id {
			s.currentID = id
			events = append(events, Event{Kind: ChatSelected, ChatID: id})
		}
	case indexOf(s.archived, id) >= 0:
		i := indexOf(s.archived, id)
		restored := s.archived[i]
		s.archived = append(s.archived[:i:i], s.archived[i+1:]...)
		s.active = append(s.active, restored)
		s.currentID = id
		events = append(events,
			Event{Kind: ChatRestored, ChatID: id},
			Event{Kind: ChatSelected, ChatID: id},
		)
	default:
		s.mu.Unlock()
		return false
	}

	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, events)
	return true
}

// CreateChat archives the current chat according to the policy, then adds a
// new empty chat named "Chat N" and makes it current.
func (s *Store) CreateChat() model.Chat {
	s.mu.Lock()
	var events []Event

	if i := indexOf(s.active, s.currentID); i >= 0 {
		outgoing := s.active[i]
		if s.policy == ArchiveMove {
			s.active = append(s.active[:i:i], s.active[i+1:]...)
		}
		s.archived = upsert(s.archived, outgoing.Clone())
		events = append(events, Event{Kind: ChatArchived, ChatID: outgoing.ID})
	}

	chat := model.NewChat(model.DefaultChatName(s.knownCountLocked() + 1))
	s.active = append(s.active, chat)
	s.currentID = chat.ID
	events = append(events,
		Event{Kind: ChatCreated, ChatID: chat.ID},
		Event{Kind: ChatSelected, ChatID: chat.ID},
	)

	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, events)
	return chat.Clone()
}

// AppendMessage appends msg to the chat with the given id.
//
// The stored chat is replaced by a new value in every collection holding it.
// Returns a *ChatNotFoundError when no collection holds the id.
func (s *Store) AppendMessage(chatID string, msg model.Message) error {
	if msg.Content == "" {
		return model.ErrEmptyContent
	}

	s.mu.Lock()
	found := false
	if i := indexOf(s.active, chatID); i >= 0 {
		s.active[i] = s.active[i].WithMessage(msg)
		found = true
	}
	if i := indexOf(s.archived, chatID); i >= 0 {
		s.archived[i] = s.archived[i].WithMessage(msg)
		found = true
	}
	if !found {
		s.mu.Unlock()
		return &ChatNotFoundError{ChatID: chatID}
	}

	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, []Event{{Kind: MessageAppended, ChatID: chatID, MessageID: msg.ID}})
	return nil
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscribe registers fn for change notifications and returns a function
// that removes it. Listeners are called in registration order.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) currentLocked() (model.Chat, bool) {
	if i := indexOf(s.active, s.currentID); i >= 0 {
		return s.active[i].Clone(), true
	}
	return model.Chat{}, false
}

// knownCountLocked counts distinct chat ids across both collections.
func (s *Store) knownCountLocked() int {
	n := len(s.active)
	for _, c := range s.archived {
		if indexOf(s.active, c.ID) < 0 {
			n++
		}
	}
	return n
}

func (s *Store) listenersLocked() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]Listener, len(s.listeners))
	for i, l := range s.listeners {
		out[i] = l.fn
	}
	return out
}

func notify(listeners []Listener, events []Event) {
	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

func indexOf(chats []model.Chat, id string) int {
	if id == "" {
		return -1
	}
	for i := range chats {
		if chats[i].ID == id {
			return i
		}
	}
	return -1
}

// upsert replaces the chat with the same id in place, or appends it.
func upsert(chats []model.Chat, chat model.Chat) []model.Chat {
	if i := indexOf(chats, chat.ID); i >= 0 {
		chats[i] = chat
		return chats
	}
	return append(chats, chat)
}

func cloneChats(chats []model.Chat) []model.Chat {
	out := make([]model.Chat, len(chats))
	for i, c := range chats {
		out[i] = c.Clone()
	}
	return out
}
