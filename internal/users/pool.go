// -----------------------------------------------------------------------
// Test-user credential pool
// Users are assigned per test and released afterwards so parallel suite
// packages never share a Practical Law session.
// -----------------------------------------------------------------------

package users

import (
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Credential is one Practical Law test account
type Credential struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Email    string `toml:"email"` // Delivery mailbox for this account
}

// Pool hands out credentials one test at a time. A credential is never
// assigned twice before being released.
type Pool struct {
	mu       sync.Mutex
	users    []Credential
	assigned map[string]bool
}

// credentialsFile matches the users.toml layout
type credentialsFile struct {
	Users []Credential `toml:"users"`
}

// NewPool creates a pool from a fixed credential list
func NewPool(users []Credential) *Pool {
	return &Pool{
		users:    users,
		assigned: make(map[string]bool),
	}
}

// LoadPool reads the credential pool from a TOML file with [[users]] entries
func LoadPool(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}

	var file credentialsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}

	if len(file.Users) == 0 {
		return nil, fmt.Errorf("credentials file %s contains no [[users]] entries", path)
	}

	for i, u := range file.Users {
		if u.Username == "" || u.Password == "" {
			return nil, fmt.Errorf("credentials file %s: entry %d is missing username or password", path, i+1)
		}
	}

	return NewPool(file.Users), nil
}

// Acquire returns an unassigned credential, or an error when every user
// is currently checked out
func (p *Pool) Acquire() (Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, user := range p.users {
		if !p.assigned[user.Username] {
			p.assigned[user.Username] = true
			return user, nil
		}
	}
	return Credential{}, fmt.Errorf("credential pool exhausted (%d users, all assigned)", len(p.users))
}

// Release returns a credential to the pool. Releasing an unassigned or
// unknown user is a no-op.
func (p *Pool) Release(user Credential) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.assigned, user.Username)
}

// Size returns the total number of users in the pool
func (p *Pool) Size() int {
	return len(p.users)
}

// Available returns how many users are currently unassigned
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.users) - len(p.assigned)
}
