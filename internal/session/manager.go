package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"envase-return-backend/internal/model"
)

// ErrSocioNotFound is reported when a login code matches no socio.
var ErrSocioNotFound = errors.New("socio not found")

// Manager issues and tracks login sessions. Sessions live in an
// in-memory TTL cache; nothing survives a process restart, matching
// the no-persisted-local-state contract.
type Manager struct {
	sessions  *cache.Cache
	adminCode string
}

// NewManager creates a session manager. Sessions expire after ttl of
// inactivity-free lifetime.
func NewManager(ttl time.Duration, adminCode string) *Manager {
	return &Manager{
		sessions:  cache.New(ttl, 2*ttl),
		adminCode: strings.ToUpper(strings.TrimSpace(adminCode)),
	}
}

// Login resolves a code to a new session. The reserved admin code
// yields an admin session; a socio code (case-insensitive, trimmed)
// yields an inventory session, forced into maintenance while the
// service is closed. An unmatched code is ErrSocioNotFound.
func (m *Manager) Login(code string, find func(string) (model.Socio, bool), estado model.AppStatus) (*Session, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	if code != "" && code == m.adminCode {
		sess := newSession(uuid.NewString(), ViewAdmin, nil)
		m.sessions.SetDefault(sess.Token, sess)
		return sess, nil
	}

	socio, ok := find(code)
	if !ok {
		return nil, ErrSocioNotFound
	}

	view := ViewInventory
	if estado == model.StatusClosed {
		view = ViewMaintenance
	}

	sess := newSession(uuid.NewString(), view, &socio)
	m.sessions.SetDefault(sess.Token, sess)
	return sess, nil
}

// Get returns the session for a token, if it exists and has not
// expired.
func (m *Manager) Get(token string) (*Session, bool) {
	v, ok := m.sessions.Get(token)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Logout discards a session. Unknown tokens are a no-op.
func (m *Manager) Logout(token string) {
	m.sessions.Delete(token)
}

// EnterMaintenanceAll forces every live session into the maintenance
// view, used when a refresh observes the service closed.
func (m *Manager) EnterMaintenanceAll() {
	for _, item := range m.sessions.Items() {
		item.Object.(*Session).EnterMaintenance()
	}
}

// LeaveMaintenanceAll releases socio sessions from maintenance after a
// retry found the service open.
func (m *Manager) LeaveMaintenanceAll() {
	for _, item := range m.sessions.Items() {
		item.Object.(*Session).LeaveMaintenance()
	}
}
