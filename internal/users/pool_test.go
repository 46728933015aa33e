package users

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUsers() []Credential {
	return []Credential{
		{Username: "pl-auto-01@example.com", Password: "secret1", Email: "pl-auto-01@example.com"},
		{Username: "pl-auto-02@example.com", Password: "secret2", Email: "pl-auto-02@example.com"},
	}
}

func TestAcquireNeverDoubleAssigns(t *testing.T) {
	pool := NewPool(testUsers())

	first, err := pool.Acquire()
	require.NoError(t, err)

	second, err := pool.Acquire()
	require.NoError(t, err)

	assert.NotEqual(t, first.Username, second.Username)
	assert.Equal(t, 0, pool.Available())

	_, err = pool.Acquire()
	require.Error(t, err, "exhausted pool must refuse a third assignment")
}

func TestReleaseMakesUserReusable(t *testing.T) {
	pool := NewPool(testUsers()[:1])

	user, err := pool.Acquire()
	require.NoError(t, err)

	_, err = pool.Acquire()
	require.Error(t, err)

	pool.Release(user)
	again, err := pool.Acquire()
	require.NoError(t, err)
	assert.Equal(t, user.Username, again.Username)
}

func TestReleaseUnassignedIsNoOp(t *testing.T) {
	pool := NewPool(testUsers())

	pool.Release(Credential{Username: "never-assigned@example.com"})
	assert.Equal(t, 2, pool.Available())
}

func TestConcurrentAcquireRelease(t *testing.T) {
	pool := NewPool(testUsers())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user, err := pool.Acquire()
			if err != nil {
				return // pool exhausted is a valid outcome under contention
			}
			pool.Release(user)
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, pool.Available())
}

func TestLoadPool(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.toml")

	content := `
[[users]]
username = "pl-auto-01@example.com"
password = "secret1"
email = "pl-auto-01@example.com"

[[users]]
username = "pl-auto-02@example.com"
password = "secret2"
email = "pl-auto-02@example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	pool, err := LoadPool(path)
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Size())

	user, err := pool.Acquire()
	require.NoError(t, err)
	assert.NotEmpty(t, user.Password)
}

func TestLoadPoolRejectsEmptyAndInvalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.toml")
	require.NoError(t, os.WriteFile(empty, []byte(""), 0644))
	_, err := LoadPool(empty)
	require.Error(t, err)

	missing := filepath.Join(dir, "missing.toml")
	require.NoError(t, os.WriteFile(missing, []byte("[[users]]\nusername = \"x\"\n"), 0644))
	_, err = LoadPool(missing)
	require.Error(t, err, "entry without password must be rejected")

	_, err = LoadPool(filepath.Join(dir, "nonexistent.toml"))
	require.Error(t, err)
}
