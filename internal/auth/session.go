package auth

import "sync"

// Session exposes the currently signed-in user, if any. The stores only
// ever need the id; the authentication protocol itself lives outside this
// module.
type Session interface {
	CurrentUserID() (string, bool)
}

// Static returns a session fixed to one user id. An empty id behaves as
// signed out.
func Static(id string) Session {
	return staticSession(id)
}

type staticSession string

func (s staticSession) CurrentUserID() (string, bool) {
	return string(s), s != ""
}

// MemorySession is a mutable session holder for sign-in/sign-out flows.
type MemorySession struct {
	mu sync.RWMutex
	id string
}

func (s *MemorySession) SignIn(id string) {
	s.mu.Lock()
	s.id = id
	s.mu.Unlock()
}

func (s *MemorySession) SignOut() {
	s.mu.Lock()
	s.id = ""
	s.mu.Unlock()
}

func (s *MemorySession) CurrentUserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id, s.id != ""
}
