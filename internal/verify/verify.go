// Package verify issues and checks short-lived one-time codes proving
// control of an email address.
package verify

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	ErrNoCodeIssued = errors.New("no code issued for email")
	ErrCodeExpired  = errors.New("code expired")
	ErrCodeMismatch = errors.New("code mismatch")
)

const (
	defaultTTL        = 10 * time.Minute
	defaultBypassCode = "123456"
)

// Record is one live code for one email. Re-issuing overwrites it.
type Record struct {
	Email     string
	Code      string
	ExpiresAt time.Time
	Verified  bool
}

// CodeStore holds the live records. The in-memory implementation is
// process-lifetime and single-instance; a multi-instance deployment needs a
// shared store behind this interface.
type CodeStore interface {
	Get(email string) (Record, bool)
	Put(email string, rec Record)
	Delete(email string)
}

// Sender delivers a code to its email address. Delivery is an external
// collaborator; the service only cares whether it was accepted.
type Sender interface {
	SendCode(email, code string) error
}

// Config tunes the service. Zero values pick the defaults: 10 minute TTL,
// bypass disabled, real clock and randomness.
type Config struct {
	TTL time.Duration

	// AllowTestBypass accepts TestBypassCode for any email. Off by default;
	// only meant for demos and automated tests.
	AllowTestBypass bool
	TestBypassCode  string

	Now  func() time.Time
	Rand *rand.Rand
}

type Service struct {
	store  CodeStore
	sender Sender

	ttl         time.Duration
	allowBypass bool
	bypassCode  string
	now         func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func New(store CodeStore, sender Sender, cfg Config) *Service {
	if cfg.TTL == 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.TestBypassCode == "" {
		cfg.TestBypassCode = defaultBypassCode
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		store:       store,
		sender:      sender,
		ttl:         cfg.TTL,
		allowBypass: cfg.AllowTestBypass,
		bypassCode:  cfg.TestBypassCode,
		now:         cfg.Now,
		rng:         cfg.Rand,
	}
}

// IssueCode generates a fresh 6-digit code for email, replacing any earlier
// unconsumed code, and hands it to the sender. Re-issuing simply restarts
// the expiry window.
func (s *Service) IssueCode(email string) error {
	code := s.generate()
	s.store.Put(email, Record{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
	})

	if err := s.sender.SendCode(email, code); err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	return nil
}

// VerifyCode checks the submitted code. On success the record is marked
// verified and kept, so repeated submissions of the same code stay
// successful until Clear. An expired record is deleted on the failed check.
func (s *Service) VerifyCode(email, submitted string) error {
	rec, ok := s.store.Get(email)
	if !ok {
		return ErrNoCodeIssued
	}

	if s.now().After(rec.ExpiresAt) {
		s.store.Delete(email)
		return ErrCodeExpired
	}

	if rec.Code != submitted && !(s.allowBypass && submitted == s.bypassCode) {
		return ErrCodeMismatch
	}

	rec.Verified = true
	s.store.Put(email, rec)
	return nil
}

// IsVerified reports whether email has passed verification. Unknown emails
// are simply unverified.
func (s *Service) IsVerified(email string) bool {
	rec, ok := s.store.Get(email)
	return ok && rec.Verified
}

// Clear removes the record for email, e.g. after a verified signup completes.
func (s *Service) Clear(email string) {
	s.store.Delete(email)
}

// generate returns a uniformly random code in [100000, 999999].
func (s *Service) generate() string {
	s.mu.Lock()
	n := s.rng.Intn(900000) + 100000
	s.mu.Unlock()
	return fmt.Sprintf("%06d", n)
}
