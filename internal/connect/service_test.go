package connect

import (
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_StartStop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newMockBackend()
		rec := &recorder{}
		s := NewService(rec, testOptions(), b.Backend())

		assert.False(t, s.IsActive())
		require.NoError(t, s.Start())
		synctest.Wait()
		assert.True(t, s.IsActive())

		// A second start is ignored.
		require.NoError(t, s.Start())
		synctest.Wait()
		assert.Equal(t, 1, b.sessions.Count())

		s.Play()
		synctest.Wait()
		assert.Equal(t, []string{"play"}, b.remotes.Surface().Calls())

		s.Stop()
		assert.False(t, s.IsActive())
		assert.Nil(t, s.Runtime())

		// Commands without a runtime are dropped.
		s.Next()
		s.RefreshAccessToken()
	})
}

func TestService_RestartCreatesFreshRuntime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newMockBackend()
		s := NewService(&recorder{}, testOptions(), b.Backend())

		require.NoError(t, s.Start())
		synctest.Wait()
		first := s.Runtime()
		s.Stop()

		require.NoError(t, s.Start())
		synctest.Wait()
		assert.NotSame(t, first, s.Runtime())
		assert.Equal(t, 2, b.sessions.Count())
		s.Stop()
	})
}

func TestService_StartReplacesFinishedRuntime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newMockBackend()
		b.sessions.FailNext(assert.AnError)
		s := NewService(&recorder{}, testOptions(), b.Backend())

		require.NoError(t, s.Start())
		<-s.Runtime().Done()
		assert.False(t, s.IsActive())

		require.NoError(t, s.Start())
		synctest.Wait()
		assert.True(t, s.IsActive())
		s.Stop()
	})
}

func TestService_Logout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newMockBackend()
		cache := &mockCache{creds: &Credentials{Username: "alice", AuthType: AuthStored, AuthData: []byte("x")}}
		opts := testOptions()
		opts.Cache = cache
		s := NewService(&recorder{}, opts, b.Backend())

		require.NoError(t, s.Start())
		synctest.Wait()

		require.NoError(t, s.Logout())
		assert.False(t, s.IsActive())
		assert.Equal(t, 1, cache.removed)

		// Password and cached credentials are gone.
		assert.ErrorIs(t, s.Start(), ErrMissingCredentials)
	})
}

func TestService_CredentialsSetters(t *testing.T) {
	opts := testOptions()
	opts.Username = ""
	opts.Password = ""
	s := NewService(&recorder{}, opts, newMockBackend().Backend())

	assert.ErrorIs(t, s.Start(), ErrMissingCredentials)

	s.SetUsername("carol")
	s.SetPassword("hunter2")
	assert.Equal(t, "carol", s.Username())
	assert.Equal(t, "0123456789abcdef", s.DeviceID())
	assert.Equal(t, "test device", s.DeviceName())

	synctest.Test(t, func(t *testing.T) {
		b := newMockBackend()
		s := NewService(&recorder{}, opts, b.Backend())
		s.SetUsername("carol")
		s.SetPassword("hunter2")
		require.NoError(t, s.Start())
		synctest.Wait()
		assert.Equal(t, "carol", b.sessions.Creds(0).Username)
		s.Stop()
	})
}

func TestService_StartWaitsForStoppingRuntime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := newMockBackend()
		release := make(chan struct{})
		listener := ListenerFunc(func(e Event) {
			if _, ok := e.(Shutdown); ok {
				<-release
			}
		})
		s := NewService(listener, testOptions(), b.Backend())
		require.NoError(t, s.Start())
		synctest.Wait()

		go s.Stop()
		synctest.Wait()

		started := make(chan error, 1)
		go func() { started <- s.Start() }()
		synctest.Wait()

		// The first runtime is still shutting down, so nothing new is spawned.
		assert.Equal(t, 1, b.sessions.Count())
		assert.True(t, s.IsActive())

		close(release)
		require.NoError(t, <-started)
		synctest.Wait()

		assert.True(t, b.sessions.Session(0).Closed())
		assert.Equal(t, 2, b.sessions.Count())
		assert.False(t, b.sessions.Session(1).Closed())
		s.Stop()
	})
}
