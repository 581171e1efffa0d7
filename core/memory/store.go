package memory

import (
	"log/slog"
	"sync"
	"time"
)

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn. Immutable once created.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds the ordered message log for one conversation
type Session struct {
	ID           string
	Messages     []Message
	CreatedAt    time.Time
	LastActivity time.Time
}

const (
	// DefaultMaxMessages caps the retained history per session
	DefaultMaxMessages = 100

	// DefaultIdleTimeout is how long a session may sit idle before it
	// is swept away
	DefaultIdleTimeout = 24 * time.Hour
)

// Store manages per-session conversation history. Sessions are created
// lazily on first write, trimmed to the newest MaxMessages entries, and
// evicted after IdleTimeout of inactivity. Eviction runs as a full sweep
// on every write; reads never mutate.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	mu sync.RWMutex

	sessions    map[string]*Session
	maxMessages int
	idleTimeout time.Duration
	logger      *slog.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewStore creates a session store. Zero values select the defaults.
func NewStore(maxMessages int, idleTimeout time.Duration, logger *slog.Logger) *Store {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		sessions:    make(map[string]*Session),
		maxMessages: maxMessages,
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// AddMessage appends a message to the session, creating the session if
// it does not exist. The write also trims history past the cap and
// sweeps expired sessions.
func (s *Store) AddMessage(sessionID string, role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &Session{
			ID:        sessionID,
			CreatedAt: now,
		}
		s.sessions[sessionID] = sess
	}

	sess.Messages = append(sess.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	sess.LastActivity = now

	if len(sess.Messages) > s.maxMessages {
		trimmed := make([]Message, s.maxMessages)
		copy(trimmed, sess.Messages[len(sess.Messages)-s.maxMessages:])
		sess.Messages = trimmed
	}

	s.sweepLocked(now)
}

// RecentMessages returns the last count messages in chronological order.
// An unknown session yields an empty slice.
func (s *Store) RecentMessages(sessionID string, count int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || count <= 0 {
		return nil
	}

	start := len(sess.Messages) - count
	if start < 0 {
		start = 0
	}

	recent := make([]Message, len(sess.Messages)-start)
	copy(recent, sess.Messages[start:])
	return recent
}

// History returns a copy of the full message log for a session, or an
// empty slice if the session does not exist.
func (s *Store) History(sessionID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return []Message{}
	}

	history := make([]Message, len(sess.Messages))
	copy(history, sess.Messages)
	return history
}

// Clear removes a session entirely. Clearing an absent session is a no-op.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
}

// SessionCount returns the number of live sessions
func (s *Store) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// sweepLocked removes every session idle longer than the timeout.
// Caller must hold the write lock.
func (s *Store) sweepLocked(now time.Time) {
	var expired []string
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > s.idleTimeout {
			expired = append(expired, id)
		}
	}

	for _, id := range expired {
		delete(s.sessions, id)
	}

	if len(expired) > 0 {
		s.logger.Debug("swept expired sessions", "count", len(expired))
	}
}
