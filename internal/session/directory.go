package session

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrTaken is returned by Append when the email or username is already in
// the directory. First writer wins.
var ErrTaken = errors.New("email or username already taken")

// Entry is a mock credential record. This is a stand-in for a real user
// store pending backend integration, not a security design.
type Entry struct {
	ID           int
	Email        string
	Username     string
	PasswordHash []byte
}

// Directory is the credential lookup the Store authenticates against.
// Injected so tests can supply isolated fixtures.
type Directory interface {
	FindByEmail(email string) (*Entry, bool)
	FindByUsername(username string) (*Entry, bool)
	Authenticate(email, password string) (*Entry, bool)
	Append(email, username, password string) (*Entry, error)
}

// Seed is a plaintext credential used to populate a directory at
// construction. Only the derived hash is retained.
type Seed struct {
	Email    string
	Username string
	Password string
}

type MemoryDirectory struct {
	mu      sync.Mutex
	entries []*Entry
}

// NewMemoryDirectory builds an in-memory directory from the given seeds.
// Ids are assigned sequentially in seed order, starting at 1.
func NewMemoryDirectory(seeds ...Seed) (*MemoryDirectory, error) {
	d := &MemoryDirectory{}

	for _, s := range seeds {
		if _, err := d.Append(s.Email, s.Username, s.Password); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// NewDemoDirectory returns the directory the application ships with.
func NewDemoDirectory() *MemoryDirectory {
	d, err := NewMemoryDirectory(
		Seed{Email: "demo@example.com", Username: "demo_user", Password: "password123"},
		Seed{Email: "test@example.com", Username: "test_user", Password: "password123"},
	)
	if err != nil {
		// Seeds are constants; this cannot fail at runtime.
		panic(err)
	}

	return d
}

func (d *MemoryDirectory) FindByEmail(email string) (*Entry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.findByEmailLocked(email)
}

func (d *MemoryDirectory) FindByUsername(username string) (*Entry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.entries {
		if e.Username == username {
			return e, true
		}
	}

	return nil, false
}

func (d *MemoryDirectory) Authenticate(email, password string) (*Entry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.findByEmailLocked(email)
	if !ok {
		return nil, false
	}

	if bcrypt.CompareHashAndPassword(entry.PasswordHash, []byte(password)) != nil {
		return nil, false
	}

	return entry, true
}

func (d *MemoryDirectory) Append(email, username, password string) (*Entry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.findByEmailLocked(email); ok {
		return nil, ErrTaken
	}

	for _, e := range d.entries {
		if e.Username == username {
			return nil, ErrTaken
		}
	}

	// Mock directory: MinCost keeps startup and tests fast.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:           d.nextIDLocked(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}
	d.entries = append(d.entries, entry)

	return entry, nil
}

// Len reports the number of directory entries.
func (d *MemoryDirectory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.entries)
}

func (d *MemoryDirectory) findByEmailLocked(email string) (*Entry, bool) {
	for _, e := range d.entries {
		if e.Email == email {
			return e, true
		}
	}

	return nil, false
}

func (d *MemoryDirectory) nextIDLocked() int {
	max := 0
	for _, e := range d.entries {
		if e.ID > max {
			max = e.ID
		}
	}

	return max + 1
}
