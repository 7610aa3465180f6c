package keyring

import (
	"io"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/pkg/errors"

	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"

	"github.com/vectis-labs/vectis/extension-client/encoding"
)

const (
	DefaultAppName  = "vectis"
	DefaultKeyName  = "vectis"
	DefaultCoinType = 118

	BackendMemory = "memory"
)

type Config struct {
	AppName string `yaml:"app_name"`
	// test, file, os or memory
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	KeyName string `yaml:"key_name"`
	// approve every Enable without asking, for unattended use
	AutoApprove bool `yaml:"auto_approve"`
}

func DefaultConfig() Config {
	return Config{
		AppName: DefaultAppName,
		Backend: sdkkeyring.BackendTest,
		KeyName: DefaultKeyName,
	}
}

// Open opens the keyring described by cfg. userInput feeds passphrase prompts of the file backend.
func Open(cfg Config, userInput io.Reader) (sdkkeyring.Keyring, error) {
	cdc := encoding.MakeEncodingConfig().Codec

	if cfg.Backend == BackendMemory {
		return sdkkeyring.NewInMemory(cdc), nil
	}

	appName := cfg.AppName
	if appName == "" {
		appName = DefaultAppName
	}

	kr, err := sdkkeyring.New(appName, cfg.Backend, cfg.Dir, userInput, cdc)
	if err != nil {
		return nil, errors.Wrapf(err, "open keyring %s backend %s failed", appName, cfg.Backend)
	}

	return kr, nil
}

func hdPath(coinType uint32) string {
	return hd.CreateHDPath(coinType, 0, 0).String()
}

// AddKey creates a new secp256k1 key and returns its mnemonic.
func AddKey(kr sdkkeyring.Keyring, name string, coinType uint32) (*sdkkeyring.Record, string, error) {
	record, mnemonic, err := kr.NewMnemonic(name, sdkkeyring.English, hdPath(coinType), sdkkeyring.DefaultBIP39Passphrase, hd.Secp256k1)
	if err != nil {
		return nil, "", errors.Wrapf(err, "create key %s failed", name)
	}

	return record, mnemonic, nil
}

// RestoreKey imports a key from its mnemonic.
func RestoreKey(kr sdkkeyring.Keyring, name, mnemonic string, coinType uint32) (*sdkkeyring.Record, error) {
	record, err := kr.NewAccount(name, mnemonic, sdkkeyring.DefaultBIP39Passphrase, hdPath(coinType), hd.Secp256k1)
	if err != nil {
		return nil, errors.Wrapf(err, "restore key %s failed", name)
	}

	return record, nil
}
