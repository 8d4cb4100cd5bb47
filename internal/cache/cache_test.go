package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/swell/internal/connect"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCredentials_Empty(t *testing.T) {
	s := openTestStore(t)

	c, err := s.Credentials()
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCredentials_SaveReplaceRemove(t *testing.T) {
	s := openTestStore(t)

	first := connect.Credentials{Username: "alice", AuthType: connect.AuthStored, AuthData: []byte{1, 2, 3}}
	require.NoError(t, s.SaveCredentials(first))

	got, err := s.Credentials()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first, *got)

	second := connect.Credentials{Username: "bob", AuthType: connect.AuthStored, AuthData: []byte("blob")}
	require.NoError(t, s.SaveCredentials(second))
	got, err = s.Credentials()
	require.NoError(t, err)
	assert.Equal(t, second, *got)

	require.NoError(t, s.RemoveCredentials())
	got, err = s.Credentials()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestVolume(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Volume()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveVolume(40000))
	v, ok, err := s.Volume()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint16(40000), v)
}

func TestDeviceID_GeneratedOnce(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.DeviceID(ctx)
	require.NoError(t, err)
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")

	again, err := s.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.DeviceID(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.SaveVolume(7))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	again, err := s.DeviceID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, again)

	v, ok, err := s.Volume()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint16(7), v)
}
