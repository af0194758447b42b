// Package store holds the client's authoritative in-memory list of clients
// and tasks. Every mutation is written through to a single key-value slot and
// announced to subscribers; the save hook lets the application schedule a
// remote sync without the store knowing about the network.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
	"github.com/dmitrijs2005/gophtasks/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
)

var (
	ErrClientNotFound   = fmt.Errorf("client %w", common.ErrNotFound)
	ErrTaskNotFound     = fmt.Errorf("task %w", common.ErrNotFound)
	ErrTaskNotCompleted = errors.New("only completed tasks can be archived")
	ErrEmptyName        = fmt.Errorf("%w: client name is required", common.ErrValidation)
	ErrEmptyText        = fmt.Errorf("%w: task text is required", common.ErrValidation)
	ErrInvalidOrder     = fmt.Errorf("%w: order lists an id twice", common.ErrValidation)
)

// Slot is the part of the key-value repository the store writes through to.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Option func(*Store)

// WithNow replaces the wall clock used for id generation.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

type Store struct {
	mu      sync.Mutex
	slot    Slot
	key     string
	logger  logging.Logger
	now     func() time.Time
	lastID  int64
	clients []models.Client

	hookMu  sync.Mutex
	subs    map[int]func(Event)
	nextSub int
	onSave  func()
}

func New(slot Slot, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		slot:    slot,
		key:     kv.KeyClients,
		logger:  logger.With("module", "store"),
		now:     time.Now,
		clients: []models.Client{},
		subs:    make(map[int]func(Event)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open builds a store and loads the persisted slot into it.
func Open(ctx context.Context, slot Slot, logger logging.Logger, opts ...Option) *Store {
	s := New(slot, logger, opts...)
	s.Load(ctx)
	return s
}

// Close drops every subscriber and the save hook.
func (s *Store) Close() {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	clear(s.subs)
	s.onSave = nil
}

// SetSaveHook installs fn to run after every user mutation has been saved.
// Replace does not call it.
func (s *Store) SetSaveHook(fn func()) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.onSave = fn
}

// Subscribe registers fn for change events and returns its cancel func.
// fn runs on the mutating goroutine after the store lock is released.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.hookMu.Lock()
		defer s.hookMu.Unlock()
		delete(s.subs, id)
	}
}

// Load replaces the in-memory list with the persisted slot. A missing slot,
// a read failure or malformed JSON all yield an empty list.
func (s *Store) Load(ctx context.Context) {
	clients := s.read(ctx)

	s.mu.Lock()
	s.setLocked(clients)
	s.mu.Unlock()

	s.emit(Event{Kind: EventLoaded})
}

func (s *Store) read(ctx context.Context) []models.Client {
	data, err := s.slot.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn(ctx, "failed to read local slot, starting empty", "key", s.key, "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var clients []models.Client
	if err := json.Unmarshal(data, &clients); err != nil {
		s.logger.Warn(ctx, "malformed local slot, starting empty", "key", s.key, "error", err)
		return nil
	}
	return clients
}

// Save writes the current list to the slot, then notifies subscribers and
// the save hook.
func (s *Store) Save(ctx context.Context) {
	s.mu.Lock()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.emit(Event{Kind: EventSaved})
	s.saved()
}

// Replace swaps the whole list (used after a remote fetch) and persists it
// without triggering the save hook.
func (s *Store) Replace(ctx context.Context, clients []models.Client) {
	s.mu.Lock()
	s.setLocked(clients)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.emit(Event{Kind: EventReplaced})
}

func (s *Store) setLocked(clients []models.Client) {
	s.clients = models.CloneClients(clients)
	for _, c := range s.clients {
		s.lastID = max(s.lastID, c.ID)
		for _, t := range c.Tasks {
			s.lastID = max(s.lastID, t.ID)
		}
	}
}

func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.clients)
	if err != nil {
		s.logger.Error(ctx, "failed to encode clients", "error", err)
		return
	}
	if err := s.slot.Set(ctx, s.key, data); err != nil {
		s.logger.Error(ctx, "failed to write local slot", "key", s.key, "error", err)
	}
}

// mutate runs fn under the lock and, when it succeeds, saves and notifies.
func (s *Store) mutate(ctx context.Context, fn func() (Event, error)) error {
	s.mu.Lock()
	ev, err := fn()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.emit(ev)
	s.saved()
	return nil
}

func (s *Store) emit(ev Event) {
	s.hookMu.Lock()
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.hookMu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (s *Store) saved() {
	s.hookMu.Lock()
	hook := s.onSave
	s.hookMu.Unlock()
	if hook != nil {
		hook()
	}
}

// nextIDLocked returns a millisecond timestamp id, bumped past the last one
// handed out so ids stay unique within a millisecond.
func (s *Store) nextIDLocked() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) clientIndexLocked(id int64) int {
	for i := range s.clients {
		if s.clients[i].ID == id {
			return i
		}
	}
	return -1
}

// taskIndexLocked searches every client for the task id.
func (s *Store) taskIndexLocked(id int64) (ci, ti int) {
	for i := range s.clients {
		for j := range s.clients[i].Tasks {
			if s.clients[i].Tasks[j].ID == id {
				return i, j
			}
		}
	}
	return -1, -1
}
