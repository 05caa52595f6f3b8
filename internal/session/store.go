package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// loginLatency imitates the round trip a real auth backend would take,
// so the submitting state is visible. Not a correctness requirement.
const loginLatency = 500 * time.Millisecond

// Store owns the authenticated-user value. It authenticates against an
// injected Directory and persists the session through an injected Keyring.
type Store struct {
	dir     Directory
	keyring Keyring
	logger  *zap.Logger
	latency time.Duration

	mu      sync.Mutex
	phase   Phase
	current *Session
}

func NewStore(dir Directory, keyring Keyring, logger *zap.Logger) *Store {
	return &Store{
		dir:     dir,
		keyring: keyring,
		logger:  logger,
		latency: loginLatency,
		phase:   PhaseInitializing,
	}
}

// Restore reads the persisted session record. A missing or malformed
// record means signed out. Runs once at startup, before the first render
// decision.
func (s *Store) Restore() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.keyring.Get()
	if err != nil {
		s.logger.Warn("session restore failed, treating as signed out", zap.Error(err))
		s.phase = PhaseUnauthenticated

		return nil
	}

	if saved == nil {
		s.phase = PhaseUnauthenticated
		return nil
	}

	s.current = saved
	s.phase = PhaseAuthenticated
	s.logger.Info("session restored", zap.Int("user_id", saved.ID), zap.String("username", saved.Username))

	return saved
}

// Login authenticates against the directory. On no match it reports
// failure and leaves any existing session untouched.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	if !s.simulateLatency(ctx) {
		return false
	}

	entry, ok := s.dir.Authenticate(email, password)
	if !ok {
		s.logger.Warn("login failed", zap.String("email", email))
		return false
	}

	s.establish(entry)

	return true
}

// Register appends a new directory entry and establishes it as the live
// session. Fails when the email or the username is already taken.
func (s *Store) Register(ctx context.Context, email, username, password string) bool {
	if !s.simulateLatency(ctx) {
		return false
	}

	entry, err := s.dir.Append(email, username, password)
	if err != nil {
		s.logger.Warn("registration failed", zap.String("email", email), zap.Error(err))
		return false
	}

	s.establish(entry)

	return true
}

// Logout clears the live session and the persisted record. Idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.keyring.Clear(); err != nil {
		s.logger.Warn("failed to clear persisted session", zap.Error(err))
	}

	s.current = nil
	s.phase = PhaseUnauthenticated
}

// Current returns the live session, or nil when signed out.
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phase
}

func (s *Store) establish(entry *Entry) {
	// The password never leaves the directory.
	sess := &Session{
		ID:       entry.ID,
		Email:    entry.Email,
		Username: entry.Username,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.keyring.Set(sess); err != nil {
		// The in-memory session still stands; only restore-on-restart
		// is lost.
		s.logger.Warn("failed to persist session", zap.Error(err))
	}

	s.current = sess
	s.phase = PhaseAuthenticated
	s.logger.Info("session established", zap.Int("user_id", sess.ID), zap.String("username", sess.Username))
}

func (s *Store) simulateLatency(ctx context.Context) bool {
	if s.latency <= 0 {
		return true
	}

	select {
	case <-time.After(s.latency):
		return true
	case <-ctx.Done():
		return false
	}
}

// SetLatency overrides the simulated auth delay. Tests set it to zero.
func (s *Store) SetLatency(d time.Duration) {
	s.latency = d
}
