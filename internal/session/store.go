// Package session holds the ephemeral per-user conversation state and the
// admin authentication flag. Nothing here survives a process restart.
package session

import "sync"

// State identifies which free-text input the bot expects from a user next.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
	// StateAwaitGroupSettings expects the four-field manual setup line.
	StateAwaitGroupSettings State = "await_group_settings"
	// StateAwaitInitialLabel expects the display label right after manual setup.
	StateAwaitInitialLabel State = "await_initial_label"
	// StateAwaitLabel expects a new display label from the settings menu.
	StateAwaitLabel State = "await_label"
	// StateAwaitTimezone expects an IANA timezone name.
	StateAwaitTimezone State = "await_timezone"
	// StateAwaitGroupBroadcast expects free text to relay into the owner's group.
	StateAwaitGroupBroadcast State = "await_group_broadcast"
	// StateAwaitAdminBroadcast expects the admin broadcast text.
	StateAwaitAdminBroadcast State = "await_admin_broadcast"
	// StateAwaitDisableReason expects the reason for disabling the bot.
	StateAwaitDisableReason State = "await_disable_reason"
	// StateAwaitAdminPassword expects the admin password.
	StateAwaitAdminPassword State = "await_admin_password"
	// StateAwaitQuickSetupGroupID expects a bare negative group id.
	StateAwaitQuickSetupGroupID State = "await_quick_setup_group_id"
)

type entry struct {
	state State
	admin bool
}

// Store is a process-wide map from user id to conversation state plus the
// admin-authenticated flag.
//
// Sessions for different users are independent; there is no cross-user
// locking. Events for the same user are NOT serialized: two concurrent
// updates from one user can interleave their read-modify-write cycles.
// That is a documented limitation, not a supported mode.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*entry
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*entry)}
}

// Get returns the current conversation state, StateIdle when none is set.
func (s *Store) Get(userID int64) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.sessions[userID]; ok {
		return e.state
	}
	return StateIdle
}

// Set overwrites the conversation state for a user.
func (s *Store) Set(userID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[userID]
	if !ok {
		e = &entry{}
		s.sessions[userID] = e
	}
	e.state = state
}

// Clear resets the conversation state to idle, keeping the admin flag.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[userID]; ok {
		e.state = StateIdle
	}
}

// InProgress reports whether the user has an active conversation state.
func (s *Store) InProgress(userID int64) bool {
	return s.Get(userID) != StateIdle
}

// IsAdmin reports whether the user passed admin authentication this process lifetime.
func (s *Store) IsAdmin(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[userID]
	return ok && e.admin
}

// SetAdmin sets or clears the admin-authenticated flag.
func (s *Store) SetAdmin(userID int64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, found := s.sessions[userID]
	if !found {
		e = &entry{state: StateIdle}
		s.sessions[userID] = e
	}
	e.admin = ok
}

// Reset wipes the whole session: state and admin flag.
func (s *Store) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
