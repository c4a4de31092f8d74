package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// Store persists sessions. Get returns a copy; changes are kept only after Save.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() (store *MemoryStore) {
	store = &MemoryStore{sessions: make(map[string][]byte)}
	return store
}

// Get returns a copy of the session.
func (m *MemoryStore) Get(_ context.Context, id string) (s *Session, err error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		err = errors.Wrapf(ErrNotFound, "session %s", id)
		return s, err
	}

	s, err = decode(data)
	return s, err
}

// Save stores a copy of the session.
func (m *MemoryStore) Save(_ context.Context, s *Session) (err error) {
	var data []byte
	data, err = encode(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.sessions[s.ID] = data
	m.mu.Unlock()

	return err
}

// Delete removes the session.
func (m *MemoryStore) Delete(_ context.Context, id string) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		err = errors.Wrapf(ErrNotFound, "session %s", id)
		return err
	}
	delete(m.sessions, id)

	return err
}

func encode(s *Session) (data []byte, err error) {
	data, err = json.Marshal(s)
	if err != nil {
		err = errors.Wrap(err, "failed to encode session")
		return data, err
	}
	return data, err
}

func decode(data []byte) (s *Session, err error) {
	s = &Session{}
	err = json.Unmarshal(data, s)
	if err != nil {
		err = errors.Wrap(err, "failed to decode session")
		return nil, err
	}
	if s.Answers == nil {
		s.Answers = make(map[string]string)
	}
	return s, err
}
