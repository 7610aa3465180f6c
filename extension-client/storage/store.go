package storage

import (
	"github.com/pkg/errors"
)

const (
	allowPermissionKey    = "allowPermission"
	contractAddressSuffix = "contractAddr"
)

var ErrEmptyAccount = errors.New("account address is empty")

// Store holds the flags the application reads on startup to reconnect silently.
type Store interface {
	// AllowPermission reports whether the user has granted the wallet permission before.
	AllowPermission() (bool, error)
	SetAllowPermission(allow bool) error
	// ContractAddress returns the todo contract of account, empty when none is known.
	ContractAddress(account string) (string, error)
	SetContractAddress(account, contract string) error
	Close() error
}

// ContractAddressKey is the key the contract address of account is stored under.
func ContractAddressKey(account string) string {
	return account + contractAddressSuffix
}

func encodeBool(v bool) []byte {
	if v {
		return []byte("true")
	}
	return []byte("false")
}

func decodeBool(v []byte) bool {
	return string(v) == "true"
}
