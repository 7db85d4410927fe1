package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

const (
	// CodeTTL is how long a verification code stays valid.
	CodeTTL = 5 * time.Minute

	cleanupInterval = time.Minute
)

var (
	ErrCodeNotFound = errors.New("no verification code pending for this phone")
	ErrCodeExpired  = errors.New("verification code has expired")
	ErrCodeMismatch = errors.New("verification code does not match")
)

type entry struct {
	code      string
	expiresAt time.Time
}

// Store keeps pending verification codes in memory, keyed by phone number.
// Codes are single-use, expire after CodeTTL and a new request for the same
// phone overwrites the previous code. State is process-local: a restart
// drops every pending code and the login ceremony starts over.
type Store struct {
	mu    sync.Mutex
	codes map[string]entry
	done  chan struct{}
	once  sync.Once
}

func NewStore() *Store {
	s := &Store{
		codes: make(map[string]entry),
		done:  make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// Issue generates a fresh 6 digit code for the phone, replacing any code
// still pending for it. The replaced code can no longer be used.
func (s *Store) Issue(phone string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = entry{
		code:      code,
		expiresAt: time.Now().Add(CodeTTL),
	}
	return code, nil
}

// Verify checks the submitted code. On success the entry is consumed so the
// code cannot be replayed. An expired entry is removed. A mismatch keeps the
// entry so the user may retype the code within the TTL.
func (s *Store) Verify(phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.codes[phone]
	if !exists {
		return ErrCodeNotFound
	}
	if time.Now().After(e.expiresAt) {
		delete(s.codes, phone)
		return ErrCodeExpired
	}
	if e.code != code {
		return ErrCodeMismatch
	}

	delete(s.codes, phone)
	return nil
}

// Close stops the background eviction loop.
func (s *Store) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for phone, e := range s.codes {
				if now.After(e.expiresAt) {
					delete(s.codes, phone)
				}
			}
			s.mu.Unlock()
		}
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
