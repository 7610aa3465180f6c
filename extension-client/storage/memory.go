package storage

import (
	"sync"
)

var _ Store = &MemStore{}

// MemStore keeps everything in a map, it is lost on exit.
type MemStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string][]byte)}
}

func (s *MemStore) AllowPermission() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return decodeBool(s.values[allowPermissionKey]), nil
}

func (s *MemStore) SetAllowPermission(allow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[allowPermissionKey] = encodeBool(allow)
	return nil
}

func (s *MemStore) ContractAddress(account string) (string, error) {
	if account == "" {
		return "", ErrEmptyAccount
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return string(s.values[ContractAddressKey(account)]), nil
}

func (s *MemStore) SetContractAddress(account, contract string) error {
	if account == "" {
		return ErrEmptyAccount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[ContractAddressKey(account)] = []byte(contract)
	return nil
}

// Raw returns the stored value of key, for inspection.
func (s *MemStore) Raw(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return string(v), ok
}

func (s *MemStore) Close() error {
	return nil
}
