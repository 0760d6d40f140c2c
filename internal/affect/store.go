package affect

import "sync"

// Store maps opaque user identities to sessions. Safe for concurrent use:
// distinct identities proceed in parallel, all access to one session is
// serialized through its entry locks.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	// turn serializes whole message turns for one identity so an assistant
	// reply lands in history before the next message is processed.
	turn sync.Mutex
	// state guards the session fields; held only for local mutation, never
	// across network calls.
	state sync.Mutex
	s     *UserSession
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*sessionEntry)}
}

func (st *Store) entry(userID string) *sessionEntry {
	st.mu.RLock()
	e := st.sessions[userID]
	st.mu.RUnlock()
	if e != nil {
		return e
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if e = st.sessions[userID]; e != nil {
		return e
	}
	e = &sessionEntry{s: newSession(userID)}
	st.sessions[userID] = e
	return e
}

// Update runs fn on the identity's session under its state lock, lazily
// creating a default session. fn must not block on I/O.
func (st *Store) Update(userID string, fn func(*UserSession)) {
	e := st.entry(userID)
	e.state.Lock()
	defer e.state.Unlock()
	fn(e.s)
}

// View runs fn on the session without creating one when absent. Returns
// false when the identity has no session.
func (st *Store) View(userID string, fn func(*UserSession)) bool {
	st.mu.RLock()
	e := st.sessions[userID]
	st.mu.RUnlock()
	if e == nil {
		return false
	}
	e.state.Lock()
	defer e.state.Unlock()
	fn(e.s)
	return true
}

// Delete removes the identity's session and history entirely. Deletion wins
// against in-flight updates: a racing turn keeps mutating a session object
// that is no longer reachable, and the next message recreates a default one.
func (st *Store) Delete(userID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[userID]; !ok {
		return false
	}
	delete(st.sessions, userID)
	return true
}

// Len returns the number of active sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Turn is a handle on one identity's serialized message turn.
type Turn struct {
	e *sessionEntry
}

// BeginTurn blocks until any previous turn for the identity completes, then
// returns a handle. Always pair with End.
func (st *Store) BeginTurn(userID string) *Turn {
	e := st.entry(userID)
	e.turn.Lock()
	return &Turn{e: e}
}

// Update runs fn on the turn's session under the state lock.
func (t *Turn) Update(fn func(*UserSession)) {
	t.e.state.Lock()
	defer t.e.state.Unlock()
	fn(t.e.s)
}

// End releases the turn.
func (t *Turn) End() {
	t.e.turn.Unlock()
}
