// Package store owns the answer key for the active quiz session. The store
// is process-wide and holds exactly one session at a time: each generation
// request replaces the whole session, invalidating the previous answer key.
// An evaluation racing a generation observes either the old or the new
// session, never a mix, because the swap happens under one lock.
package store

import (
	"sync"

	"learnadapt/internal/domain"
)

// SessionStore maps question ids to their full generated records for the
// lifetime of one quiz session. Safe for concurrent use.
type SessionStore struct {
	mu        sync.RWMutex
	quizID    string
	questions map[string]*domain.Question
	order     []string
}

// NewSessionStore returns an empty store with no active session.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		questions: make(map[string]*domain.Question),
	}
}

// Reset discards the current session and starts a new, empty one under the
// given quiz id.
func (s *SessionStore) Reset(quizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizID = quizID
	s.questions = make(map[string]*domain.Question)
	s.order = nil
}

// Put records a question in the active session. The question must already
// carry its assigned id.
func (s *SessionStore) Put(q *domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.questions[q.ID]; !exists {
		s.order = append(s.order, q.ID)
	}
	s.questions[q.ID] = q
}

// Get returns the stored question for id, or false when the id is not part
// of the active session.
func (s *SessionStore) Get(id string) (*domain.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	return q, ok
}

// QuizID returns the id of the active session, or "" before the first
// generation.
func (s *SessionStore) QuizID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quizID
}

// Size returns the number of questions in the active session.
func (s *SessionStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions)
}

// Empty reports whether the active session holds no questions.
func (s *SessionStore) Empty() bool {
	return s.Size() == 0
}
