package socket

import (
	"errors"
	"sync"
)

// ErrNotConnected is returned by Push when the user has no live connection.
var ErrNotConnected = errors.New("user not connected")

// Handle is a live connection's write side. The registry treats it as
// opaque; equality of handles is what guards stale unregisters.
type Handle interface {
	Push(event string, payload interface{}) error
	Close() error
}

type entry struct {
	handle          Handle
	interactingWith string
}

// Registry maps a user id to its single live connection handle and the
// transient "currently viewing" pointer. It is rebuilt from zero on
// process restart; everyone is offline until they reconnect.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*entry)}
}

// Register binds userID to handle, replacing any prior handle for the
// same user (last writer wins). A replaced handle is closed so the stale
// connection does not linger.
func (r *Registry) Register(userID string, handle Handle) {
	r.mu.Lock()
	var stale Handle
	if prev, ok := r.sessions[userID]; ok && prev.handle != handle {
		stale = prev.handle
	}
	r.sessions[userID] = &entry{handle: handle}
	r.mu.Unlock()

	if stale != nil {
		_ = stale.Close()
	}
}

// Unregister removes the entry only while it still holds handle. A
// disconnect racing a fast reconnect therefore cannot evict the new
// connection.
func (r *Registry) Unregister(userID string, handle Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[userID]; ok && current.handle == handle {
		delete(r.sessions, userID)
	}
}

// SetInteraction records which peer conversation userID is viewing;
// empty clears it. No-op when the user has no session.
func (r *Registry) SetInteraction(userID, otherID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[userID]; ok {
		current.interactingWith = otherID
	}
}

// Lookup returns the live handle for userID, if any.
func (r *Registry) Lookup(userID string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	current, ok := r.sessions[userID]
	if !ok {
		return nil, false
	}
	return current.handle, true
}

func (r *Registry) IsOnline(userID string) bool {
	_, ok := r.Lookup(userID)
	return ok
}

func (r *Registry) IsInteractingWith(userID, otherID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	current, ok := r.sessions[userID]
	return ok && otherID != "" && current.interactingWith == otherID
}

// Push delivers an event to userID's live connection, if there is one.
func (r *Registry) Push(userID, event string, payload interface{}) error {
	handle, ok := r.Lookup(userID)
	if !ok {
		return ErrNotConnected
	}
	return handle.Push(event, payload)
}
