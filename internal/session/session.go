// Package session holds the seller's bearer credential and exposes the identity
// claims decoded from it. The session survives restarts through a durable Storage.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Storage keys, shared with earlier clients that used the same names.
const (
	TokenKey   = "auth_token"
	CookiesKey = "auth_cookies"
)

// Storage is the durable string store behind a Session.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Session struct {
	mu      sync.RWMutex
	storage Storage
	log     zerolog.Logger

	token   string
	cookies string
	loading bool
	loaded  bool
}

// New returns an empty session backed by storage. A zero logger discards.
func New(storage Storage, log zerolog.Logger) *Session {
	return &Session{storage: storage, log: log, loading: true}
}

// Load reads the persisted token and cookies once. Read errors are logged and
// leave the session empty; Loading() is false afterwards in every case.
func (s *Session) Load(ctx context.Context) {
	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	token, okTok, errTok := s.storage.Get(ctx, TokenKey)
	cookies, okCk, errCk := s.storage.Get(ctx, CookiesKey)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.loaded = true
	s.loading = false

	if errTok != nil {
		s.log.Error().Str("key", TokenKey).Err(errTok).Msg("session.load")
	} else if okTok && token != "" {
		s.token = token
		s.log.Debug().Str("kind", Kind(token).String()).Msg("session.load")
	}
	if errCk != nil {
		s.log.Error().Str("key", CookiesKey).Err(errCk).Msg("session.load")
	} else if okCk {
		s.cookies = cookies
	}
}

// Login persists token and then makes it current. Storage errors are returned
// and leave the previous token in place.
func (s *Session) Login(ctx context.Context, token string) error {
	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		s.log.Error().Err(err).Msg("session.login")
		return err
	}
	s.mu.Lock()
	s.token = token
	s.loaded = true
	s.loading = false
	s.mu.Unlock()

	if k := Kind(token); k == KindJWT {
		if _, err := DecodeClaims(token); err != nil {
			s.log.Warn().Str("kind", k.String()).AnErr("decode_err", err).Msg("session.login")
		}
	}
	return nil
}

// SetCookies persists the raw cookie string forwarded with every request.
func (s *Session) SetCookies(ctx context.Context, raw string) error {
	if err := s.storage.Set(ctx, CookiesKey, raw); err != nil {
		return err
	}
	s.mu.Lock()
	s.cookies = raw
	s.mu.Unlock()
	return nil
}

// Logout forgets the credential. It never fails: storage errors are logged.
func (s *Session) Logout(ctx context.Context) {
	if err := s.storage.Delete(ctx, TokenKey); err != nil {
		s.log.Error().Str("key", TokenKey).Err(err).Msg("session.logout")
	}
	if err := s.storage.Delete(ctx, CookiesKey); err != nil {
		s.log.Error().Str("key", CookiesKey).Err(err).Msg("session.logout")
	}
	s.mu.Lock()
	s.token = ""
	s.cookies = ""
	s.mu.Unlock()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Cookies() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cookies
}

func (s *Session) IsAuthenticated() bool { return s.Token() != "" }

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) UserInfo() (Claims, bool) { return UserInfo(s.Token()) }

func (s *Session) MerchantID() (string, bool) {
	return s.claim(func(c Claims) string { return c.Merchant() })
}

func (s *Session) UserID() (string, bool) {
	return s.claim(func(c Claims) string { return string(c.ID) })
}

func (s *Session) BranchID() (string, bool) {
	return s.claim(func(c Claims) string { return string(c.BranchID) })
}

func (s *Session) Role() (string, bool) {
	return s.claim(func(c Claims) string { return string(c.Role) })
}

func (s *Session) claim(pick func(Claims) string) (string, bool) {
	tok := s.Token()
	c, err := DecodeClaims(tok)
	if err != nil {
		if err != ErrNoToken {
			s.log.Debug().Str("kind", Kind(tok).String()).Err(err).Msg("session.claims")
		}
		return "", false
	}
	v := pick(c)
	if v == "" {
		return "", false
	}
	return v, true
}
