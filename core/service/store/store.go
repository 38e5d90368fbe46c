// Package store implements the simulator's in-memory hierarchical
// state: users keyed by primary ID, each owning its own messages,
// threads, drafts, labels, settings, history and watch; plus a
// process-wide attachment table and counters (§3, §4.A).
package store

import (
	"strings"
	"sync"

	"mailsim/core/domain"
	"mailsim/pkg/apperr"
)

const primaryUser = "me"

// Store is the single shared mutable state every mailbox operation reads
// or writes. A single RWMutex serializes cross-user operations (§5): all
// mutators take the write lock; read paths (profile lookups, message
// listing and search) take the read lock and hold it for the whole
// operation.
type Store struct {
	mu sync.RWMutex

	users      map[string]*domain.User
	emailIndex map[string]string // lowercased email -> primary ID

	attachments map[string]*domain.Attachment

	counters *Counters
}

// New returns an empty store with no users.
func New() *Store {
	return &Store{
		users:       make(map[string]*domain.User),
		emailIndex:  make(map[string]string),
		attachments: make(map[string]*domain.Attachment),
		counters:    NewCounters(),
	}
}

// EnsureUser resolves id to a canonical primary key: id may be a known
// primary key or a user's profile email address. It never creates users.
func (s *Store) EnsureUser(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ensureUserLocked(id)
}

func (s *Store) ensureUserLocked(id string) (string, error) {
	if _, ok := s.users[id]; ok {
		return id, nil
	}
	if primary, ok := s.emailIndex[strings.ToLower(id)]; ok {
		return primary, nil
	}
	return "", apperr.UserNotFound(id)
}

// CreateUser registers a brand-new user under id with the given primary
// email, seeded with the standard system labels and default settings.
// Fails with Conflict if id already names a user.
func (s *Store) CreateUser(id, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; ok {
		return nil, apperr.Conflict("user already exists: " + id)
	}
	u := domain.NewUser(id, email)
	s.users[id] = u
	if email != "" {
		s.emailIndex[strings.ToLower(email)] = id
	}
	return u, nil
}

// ExistsUser reports whether id names a known user (by primary key only;
// it does not consult the email index).
func (s *Store) ExistsUser(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}

// GetUser resolves and returns the user's live record. Callers must hold
// no external lock; GetUser takes its own read lock around resolution but
// returns the record itself unlocked for the caller to mutate under its
// own write-lock discipline when used from within Store's own methods.
func (s *Store) GetUser(id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	primary, err := s.ensureUserLocked(id)
	if err != nil {
		return nil, err
	}
	return s.users[primary], nil
}

// WithUser resolves id and invokes fn with the user's record while
// holding the store's write lock, so fn may freely mutate the user
// (messages/threads/drafts/labels/settings/history) atomically (§5).
func (s *Store) WithUser(id string, fn func(u *domain.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	primary, err := s.ensureUserLocked(id)
	if err != nil {
		return err
	}
	return fn(s.users[primary])
}

// WithUserRead resolves id and invokes fn with the user's record while
// holding the store's read lock, for read-only operations that need a
// consistent view without blocking other readers.
func (s *Store) WithUserRead(id string, fn func(u *domain.User) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	primary, err := s.ensureUserLocked(id)
	if err != nil {
		return err
	}
	return fn(s.users[primary])
}

// GetHistoryId returns u's current history ID, defaulting to "1" when
// absent.
func GetHistoryId(u *domain.User) string {
	if u.Profile.HistoryId == "" {
		return "1"
	}
	return u.Profile.HistoryId
}

// NextCounter mints the next value for the named counter (message,
// thread, draft, label, history, watch).
func (s *Store) NextCounter(name string) int64 {
	return s.counters.Next(name)
}

// GetAttachment looks up a global attachment by ID.
func (s *Store) GetAttachment(id string) (*domain.Attachment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attachments[id]
	return a, ok
}

// PutAttachment inserts att into the global table if no entry with the
// same ID exists yet (content-addressed: identical bytes, identical ID,
// so this is naturally idempotent).
func (s *Store) PutAttachment(att *domain.Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attachments[att.ID]; !ok {
		s.attachments[att.ID] = att
	}
}

// GCAttachments removes every attachment no longer referenced by any
// message or draft across any user (§3.3 lazy GC). Returns the number of
// entries removed.
func (s *Store) GCAttachments() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	referenced := make(map[string]struct{})
	for _, u := range s.users {
		for _, m := range u.AllMessages() {
			for _, id := range m.AttachmentIds() {
				referenced[id] = struct{}{}
			}
		}
	}
	removed := 0
	for id := range s.attachments {
		if _, ok := referenced[id]; !ok {
			delete(s.attachments, id)
			removed++
		}
	}
	return removed
}

// ResetDB discards all state and restores a single user "me" with the
// standard system labels (§4.A).
func (s *Store) ResetDB() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*domain.User)
	s.emailIndex = make(map[string]string)
	s.attachments = make(map[string]*domain.Attachment)
	s.counters = NewCounters()

	u := domain.NewUser(primaryUser, "me@mailsim.local")
	s.users[primaryUser] = u
	s.emailIndex[strings.ToLower(u.Profile.EmailAddress)] = primaryUser
}

// Lock/RLock expose the store's mutex to callers (the label verifier)
// that walk every user at once and so cannot go through WithUser or
// WithUserRead (§5).
func (s *Store) RLock()   { s.mu.RLock() }
func (s *Store) RUnlock() { s.mu.RUnlock() }
func (s *Store) Lock()    { s.mu.Lock() }
func (s *Store) Unlock()  { s.mu.Unlock() }

// Users returns every user record. Callers must hold RLock/Lock.
func (s *Store) Users() map[string]*domain.User {
	return s.users
}
