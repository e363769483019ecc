// Package session keeps the per-client dashboard state: who is signed in and
// which page to render next.
package session

import (
	"context"
	"sync"
	"time"
)

type Page string

const (
	PageLogin     Page = "login"
	PageRegister  Page = "register"
	PageDashboard Page = "dashboard"
	PageGallery   Page = "gallery"
	PageStreams   Page = "streams"
	PageSettings  Page = "settings"
)

// ParsePage maps a page name from a request to a known page.
func ParsePage(name string) (Page, bool) {
	switch p := Page(name); p {
	case PageLogin, PageRegister, PageDashboard, PageGallery, PageStreams, PageSettings:
		return p, true
	}
	return "", false
}

// Public pages are the only ones reachable without a signed-in user.
func (p Page) Public() bool {
	return p == PageLogin || p == PageRegister
}

// Identity is the signed-in user as the session remembers it.
type Identity struct {
	ID       uint
	Username string
	Email    string
}

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

type Flash struct {
	Kind    FlashKind
	Message string
}

type Session struct {
	ID string

	mu       sync.Mutex
	user     *Identity
	page     Page
	flash    *Flash
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, page: PageLogin, lastSeen: now}
}

func (s *Session) User() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Page returns the page to render. Without a user only the public pages
// apply; with a user the public pages fall through to the dashboard.
func (s *Session) Page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.user == nil && s.page == PageRegister:
		return PageRegister
	case s.user == nil:
		return PageLogin
	case s.page.Public() || s.page == "":
		return PageDashboard
	}
	return s.page
}

func (s *Session) Navigate(p Page) {
	s.mu.Lock()
	s.page = p
	s.mu.Unlock()
}

func (s *Session) Login(u Identity) {
	s.mu.Lock()
	s.user = &u
	s.page = PageDashboard
	s.mu.Unlock()
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.page = PageLogin
	s.mu.Unlock()
}

func (s *Session) SetFlash(kind FlashKind, msg string) {
	s.mu.Lock()
	s.flash = &Flash{Kind: kind, Message: msg}
	s.mu.Unlock()
}

// TakeFlash returns the pending flash message, if any, and clears it.
func (s *Session) TakeFlash() *Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flash
	s.flash = nil
	return f
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok
}
