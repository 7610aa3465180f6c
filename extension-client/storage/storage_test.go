package storage_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/vectis-labs/vectis/extension-client/core/logging"
	"github.com/vectis-labs/vectis/extension-client/storage"
)

func testStore(t *testing.T, s storage.Store) {
	allow, err := s.AllowPermission()
	require.NoError(t, err)
	require.False(t, allow)

	require.NoError(t, s.SetAllowPermission(true))
	allow, err = s.AllowPermission()
	require.NoError(t, err)
	require.True(t, allow)

	addr, err := s.ContractAddress("pulsar1abc")
	require.NoError(t, err)
	require.Empty(t, addr)

	require.NoError(t, s.SetContractAddress("pulsar1abc", "pulsar1xyz"))
	addr, err = s.ContractAddress("pulsar1abc")
	require.NoError(t, err)
	require.Equal(t, "pulsar1xyz", addr)

	// scoped per account
	addr, err = s.ContractAddress("pulsar1def")
	require.NoError(t, err)
	require.Empty(t, addr)

	_, err = s.ContractAddress("")
	require.True(t, errors.Is(err, storage.ErrEmptyAccount))
	require.True(t, errors.Is(s.SetContractAddress("", "pulsar1xyz"), storage.ErrEmptyAccount))
}

func TestMemStore(t *testing.T) {
	s := storage.NewMemStore()
	testStore(t, s)

	v, ok := s.Raw("pulsar1abccontractAddr")
	require.True(t, ok)
	require.Equal(t, "pulsar1xyz", v)

	v, ok = s.Raw("allowPermission")
	require.True(t, ok)
	require.Equal(t, "true", v)
}

func TestBoltStore(t *testing.T) {
	cfg := storage.DefaultConfig()
	cfg.Path = t.TempDir()

	s, err := storage.OpenBoltStore(logging.NewNopLogger(), cfg)
	require.NoError(t, err)
	testStore(t, s)
	require.NoError(t, s.Close())

	// values survive a reopen
	s, err = storage.OpenBoltStore(logging.NewNopLogger(), cfg)
	require.NoError(t, err)
	defer s.Close()

	allow, err := s.AllowPermission()
	require.NoError(t, err)
	require.True(t, allow)

	addr, err := s.ContractAddress("pulsar1abc")
	require.NoError(t, err)
	require.Equal(t, "pulsar1xyz", addr)

	require.NoError(t, s.SetAllowPermission(false))
	allow, err = s.AllowPermission()
	require.NoError(t, err)
	require.False(t, allow)
}

func TestContractAddressKey(t *testing.T) {
	require.Equal(t, "pulsar1abccontractAddr", storage.ContractAddressKey("pulsar1abc"))
}
