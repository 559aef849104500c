// Package session owns the per-login application state: the current
// view, the active socio, the selection basket and the active family
// tab. State is mutated only through named transition methods.
package session

import (
	"sync"

	"envase-return-backend/internal/basket"
	"envase-return-backend/internal/model"
)

// View is a top-level UI state.
type View string

const (
	ViewLogin       View = "LOGIN"
	ViewInventory   View = "INVENTORY"
	ViewAdmin       View = "ADMIN"
	ViewMaintenance View = "MAINTENANCE"
)

// Session is the application state owned by one logged-in client.
// Review mode is a toggle on top of the inventory view, not a view of
// its own. All methods serialize through the session mutex; within one
// client events are ordered, concurrent requests from one token must
// not interleave basket reads and writes.
type Session struct {
	Token string

	mu           sync.Mutex
	view         View
	socio        *model.Socio
	basket       *basket.Basket
	activeFamily string
	review       bool
}

func newSession(token string, view View, socio *model.Socio) *Session {
	return &Session{
		Token:  token,
		view:   view,
		socio:  socio,
		basket: basket.New(),
	}
}

// View returns the current top-level state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Socio returns the logged-in socio, nil for admin sessions.
func (s *Session) Socio() *model.Socio {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.socio
}

// InReview reports whether the review toggle is on.
func (s *Session) InReview() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.review
}

// ActiveFamily returns the active family tab.
func (s *Session) ActiveFamily() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeFamily
}

// SyncFamilies reassigns the active family whenever the available list
// changed underneath it: an active family absent from the new list is
// replaced by the new first entry, and an unset one is initialized the
// same way. The active family never points at a non-existent bucket.
func (s *Session) SyncFamilies(families []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncFamiliesLocked(families)
}

func (s *Session) syncFamiliesLocked(families []string) string {
	if len(families) == 0 {
		s.activeFamily = ""
		return ""
	}
	for _, f := range families {
		if f == s.activeFamily {
			return s.activeFamily
		}
	}
	s.activeFamily = families[0]
	return s.activeFamily
}

// SelectFamily activates a family tab and leaves review mode.
func (s *Session) SelectFamily(family string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeFamily = family
	s.review = false
}

// ToggleReview flips review mode and reports the new value.
func (s *Session) ToggleReview() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.review = !s.review
	return s.review
}

// SetQuantity stores a raw quantity input for an envase code.
func (s *Session) SetQuantity(code, raw string) (int, basket.Warning) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket.SetQuantity(code, raw)
}

// Increment bumps an envase quantity by one.
func (s *Session) Increment(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket.Increment(code)
}

// Decrement lowers an envase quantity by one.
func (s *Session) Decrement(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket.Decrement(code)
}

// Remove drops an envase from the selection entirely.
func (s *Session) Remove(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.basket.Remove(code)
}

// ClearAll wipes the selection after explicit confirmation. Leaving
// review mode on success keeps the active tab meaningful, since the
// review bucket just collapsed to empty.
func (s *Session) ClearAll(confirmed bool, families []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cleared := s.basket.Clear(confirmed)
	if cleared && s.review {
		s.review = false
		s.syncFamiliesLocked(families)
	}
	return cleared
}

// Total returns the basket total.
func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket.Total()
}

// Quantity returns the stored quantity for one envase code.
func (s *Session) Quantity(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket.Quantity(code)
}

// Selection returns the review projection of the basket.
func (s *Session) Selection() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket.Selection()
}

// AfterSubmit resets the basket and review toggle once a submission
// has been accepted, reassigning the active family to the first
// available bucket.
func (s *Session) AfterSubmit(families []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.basket = basket.New()
	s.review = false
	s.syncFamiliesLocked(families)
}

// EnterMaintenance forces the maintenance view while the service is
// closed. Admin sessions are exempt; the admin panel stays reachable
// to reopen the service.
func (s *Session) EnterMaintenance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.socio != nil {
		s.view = ViewMaintenance
	}
}

// LeaveMaintenance returns to the inventory view after a successful
// manual retry found the service open again. Admin sessions stay
// where they are.
func (s *Session) LeaveMaintenance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == ViewMaintenance && s.socio != nil {
		s.view = ViewInventory
	}
}
