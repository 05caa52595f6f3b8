package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/pfcopilot/internal/session"
)

func newStore(t *testing.T) (*session.Store, *session.MemoryDirectory, *session.MemoryKeyring) {
	t.Helper()

	dir := session.NewDemoDirectory()
	keyring := &session.MemoryKeyring{}

	store := session.NewStore(dir, keyring, zap.NewNop())
	store.SetLatency(0)

	return store, dir, keyring
}

func TestStore_PhaseLifecycle(t *testing.T) {
	store, _, _ := newStore(t)

	assert.Equal(t, session.PhaseInitializing, store.Phase())

	store.Restore()
	assert.Equal(t, session.PhaseUnauthenticated, store.Phase())

	ok := store.Login(context.Background(), "demo@example.com", "password123")
	require.True(t, ok)
	assert.Equal(t, session.PhaseAuthenticated, store.Phase())

	store.Logout()
	assert.Equal(t, session.PhaseUnauthenticated, store.Phase())
}

func TestStore_Login(t *testing.T) {
	type testCase struct {
		name     string
		email    string
		password string
		wantOK   bool
		wantUser string
	}

	tests := []testCase{
		{
			name:     "DemoUser",
			email:    "demo@example.com",
			password: "password123",
			wantOK:   true,
			wantUser: "demo_user",
		},
		{
			name:     "SecondSeed",
			email:    "test@example.com",
			password: "password123",
			wantOK:   true,
			wantUser: "test_user",
		},
		{
			name:     "WrongPassword",
			email:    "demo@example.com",
			password: "wrong",
			wantOK:   false,
		},
		{
			name:     "UnknownEmail",
			email:    "nobody@example.com",
			password: "password123",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, keyring := newStore(t)
			store.Restore()

			ok := store.Login(context.Background(), tt.email, tt.password)
			assert.Equal(t, tt.wantOK, ok)

			if !tt.wantOK {
				assert.Nil(t, store.Current())
				assert.Equal(t, session.PhaseUnauthenticated, store.Phase())

				return
			}

			current := store.Current()
			require.NotNil(t, current)
			assert.Equal(t, tt.email, current.Email)
			assert.Equal(t, tt.wantUser, current.Username)

			persisted, err := keyring.Get()
			require.NoError(t, err)
			assert.Equal(t, current, persisted)
		})
	}
}

func TestStore_FailedLoginKeepsExistingSession(t *testing.T) {
	store, _, _ := newStore(t)
	store.Restore()

	require.True(t, store.Login(context.Background(), "demo@example.com", "password123"))
	before := store.Current()

	assert.False(t, store.Login(context.Background(), "demo@example.com", "wrong"))
	assert.Equal(t, before, store.Current())
	assert.Equal(t, session.PhaseAuthenticated, store.Phase())
}

func TestStore_Register(t *testing.T) {
	type testCase struct {
		name     string
		email    string
		username string
		wantOK   bool
	}

	tests := []testCase{
		{
			name:     "NewUser",
			email:    "alice@example.com",
			username: "alice",
			wantOK:   true,
		},
		{
			name:     "DuplicateEmail",
			email:    "demo@example.com",
			username: "someone_else",
			wantOK:   false,
		},
		{
			name:     "DuplicateUsername",
			email:    "fresh@example.com",
			username: "demo_user",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, dir, _ := newStore(t)
			store.Restore()

			lenBefore := dir.Len()

			ok := store.Register(context.Background(), tt.email, tt.username, "secret")
			assert.Equal(t, tt.wantOK, ok)

			if !tt.wantOK {
				assert.Equal(t, lenBefore, dir.Len())
				assert.Nil(t, store.Current())

				return
			}

			assert.Equal(t, lenBefore+1, dir.Len())

			current := store.Current()
			require.NotNil(t, current)
			assert.Equal(t, tt.username, current.Username)
			// Ids are sequential: one past the previous maximum.
			assert.Equal(t, lenBefore+1, current.ID)

			// The new entry can log in.
			store.Logout()
			assert.True(t, store.Login(context.Background(), tt.email, "secret"))
		})
	}
}

func TestStore_LogoutThenRestore(t *testing.T) {
	store, dir, keyring := newStore(t)
	store.Restore()

	require.True(t, store.Login(context.Background(), "demo@example.com", "password123"))
	store.Logout()

	restarted := session.NewStore(dir, keyring, zap.NewNop())
	restarted.SetLatency(0)

	assert.Nil(t, restarted.Restore())
	assert.Equal(t, session.PhaseUnauthenticated, restarted.Phase())
}

func TestStore_LogoutIdempotent(t *testing.T) {
	store, _, _ := newStore(t)
	store.Restore()

	require.True(t, store.Login(context.Background(), "demo@example.com", "password123"))

	store.Logout()
	store.Logout()

	assert.Nil(t, store.Current())
	assert.Equal(t, session.PhaseUnauthenticated, store.Phase())
}

func TestStore_RestoreSavedSession(t *testing.T) {
	dir := session.NewDemoDirectory()
	keyring := &session.MemoryKeyring{}
	require.NoError(t, keyring.Set(&session.Session{ID: 1, Email: "demo@example.com", Username: "demo_user"}))

	store := session.NewStore(dir, keyring, zap.NewNop())

	restored := store.Restore()
	require.NotNil(t, restored)
	assert.Equal(t, "demo_user", restored.Username)
	assert.Equal(t, session.PhaseAuthenticated, store.Phase())
}

func TestStore_LoginCancelled(t *testing.T) {
	store, _, _ := newStore(t)
	store.SetLatency(time.Second)
	store.Restore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, store.Login(ctx, "demo@example.com", "password123"))
	assert.Nil(t, store.Current())
}
