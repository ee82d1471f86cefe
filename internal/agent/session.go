package agent

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMemoryTurns bounds how many past messages a session keeps.
const DefaultMemoryTurns = 20

const (
	// DefaultSessionIdle is how long an unused session is kept.
	DefaultSessionIdle = 30 * time.Minute
	// DefaultMaxSessions caps live sessions; the least recently used is dropped first.
	DefaultMaxSessions = 1000
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session is one conversation: its own memory, independent of every other session.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	turns    []Turn
	maxTurns int
}

func NewSession(maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = DefaultMemoryTurns
	}
	return &Session{ID: uuid.NewString(), CreatedAt: time.Now().UTC(), maxTurns: maxTurns}
}

func (s *Session) Append(role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{Role: role, Content: content})
	if over := len(s.turns) - s.maxTurns; over > 0 {
		s.turns = append([]Turn(nil), s.turns[over:]...)
	}
}

func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.turns...)
}

// Transcript renders the memory the way the prompt expects it.
func (s *Session) Transcript() string {
	var b strings.Builder
	for _, t := range s.History() {
		switch t.Role {
		case RoleUser:
			b.WriteString("Human: ")
		default:
			b.WriteString("AI: ")
		}
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// Manager hands out sessions by ID. Sessions idle for longer than IdleTimeout
// are dropped, and at most MaxSessions are kept.
type Manager struct {
	IdleTimeout time.Duration
	MaxSessions int

	mu       sync.Mutex
	sessions map[string]*managed
	maxTurns int
	now      func() time.Time
}

type managed struct {
	session  *Session
	lastUsed time.Time
}

func NewManager(maxTurns int) *Manager {
	return &Manager{
		IdleTimeout: DefaultSessionIdle,
		MaxSessions: DefaultMaxSessions,
		sessions:    map[string]*managed{},
		maxTurns:    maxTurns,
		now:         time.Now,
	}
}

// Get returns the session for id, creating a fresh one when id is empty,
// unknown or expired.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.expire(now)

	if e, ok := m.sessions[id]; ok && id != "" {
		e.lastUsed = now
		return e.session
	}
	if m.MaxSessions > 0 {
		for len(m.sessions) >= m.MaxSessions {
			m.evictOldest()
		}
	}
	s := NewSession(m.maxTurns)
	m.sessions[s.ID] = &managed{session: s, lastUsed: now}
	return s
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len reports how many sessions are live.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) expire(now time.Time) {
	if m.IdleTimeout <= 0 {
		return
	}
	for id, e := range m.sessions {
		if now.Sub(e.lastUsed) > m.IdleTimeout {
			delete(m.sessions, id)
		}
	}
}

func (m *Manager) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, e := range m.sessions {
		if oldestID == "" || e.lastUsed.Before(oldest) {
			oldestID, oldest = id, e.lastUsed
		}
	}
	delete(m.sessions, oldestID)
}
