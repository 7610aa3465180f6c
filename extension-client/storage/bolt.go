package storage

import (
	"path/filepath"
	"time"

	"github.com/lightningnetwork/lnd/kvdb"
	"github.com/pkg/errors"

	"github.com/vectis-labs/vectis/extension-client/core/logging"
	"github.com/vectis-labs/vectis/extension-client/core/utils"
)

const (
	DefaultDBFileName = "vectis.db"
	DefaultDBTimeout  = 10 * time.Second
)

var (
	// localStorageBucket is the single top level bucket of the database.
	localStorageBucket = []byte("vectis-local-storage")

	ErrBucketNotFound = errors.New("local storage bucket not found")
)

type Config struct {
	// Path is the directory the database file is created in.
	Path     string        `yaml:"path"`
	FileName string        `yaml:"file_name"`
	Timeout  time.Duration `yaml:"timeout"`
}

func DefaultConfig() Config {
	return Config{
		Path:     ".vectis",
		FileName: DefaultDBFileName,
		Timeout:  DefaultDBTimeout,
	}
}

var _ Store = &BoltStore{}

// BoltStore persists the flags in a bolt database through kvdb.
type BoltStore struct {
	logger logging.Logger
	db     kvdb.Backend
}

// OpenBoltStore opens, or creates, the database described by cfg.
func OpenBoltStore(logger logging.Logger, cfg Config) (*BoltStore, error) {
	if cfg.FileName == "" {
		cfg.FileName = DefaultDBFileName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultDBTimeout
	}

	path, err := utils.ExpandPath(cfg.Path)
	if err != nil {
		return nil, err
	}
	cfg.Path = path

	db, err := kvdb.GetBoltBackend(&kvdb.BoltBackendConfig{
		DBPath:     cfg.Path,
		DBFileName: cfg.FileName,
		DBTimeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt db %s failed", filepath.Join(cfg.Path, cfg.FileName))
	}

	if err := kvdb.Update(db, func(tx kvdb.RwTx) error {
		_, err := tx.CreateTopLevelBucket(localStorageBucket)
		return err
	}, func() {}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create local storage bucket failed")
	}

	logger.Debug("local storage opened", "path", cfg.Path, "file", cfg.FileName)

	return &BoltStore{
		logger: logger.With("module", "storage"),
		db:     db,
	}, nil
}

func (s *BoltStore) get(key string) ([]byte, error) {
	var value []byte

	err := kvdb.View(s.db, func(tx kvdb.RTx) error {
		bucket := tx.ReadBucket(localStorageBucket)
		if bucket == nil {
			return ErrBucketNotFound
		}

		if v := bucket.Get([]byte(key)); v != nil {
			// bolt values are only valid inside the transaction
			value = append([]byte{}, v...)
		}
		return nil
	}, func() {
		value = nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "read %s failed", key)
	}

	return value, nil
}

func (s *BoltStore) put(key string, value []byte) error {
	err := kvdb.Update(s.db, func(tx kvdb.RwTx) error {
		bucket := tx.ReadWriteBucket(localStorageBucket)
		if bucket == nil {
			return ErrBucketNotFound
		}

		return bucket.Put([]byte(key), value)
	}, func() {})
	if err != nil {
		return errors.Wrapf(err, "write %s failed", key)
	}

	s.logger.Debug("local storage updated", "key", key)

	return nil
}

func (s *BoltStore) AllowPermission() (bool, error) {
	v, err := s.get(allowPermissionKey)
	if err != nil {
		return false, err
	}

	return decodeBool(v), nil
}

func (s *BoltStore) SetAllowPermission(allow bool) error {
	return s.put(allowPermissionKey, encodeBool(allow))
}

func (s *BoltStore) ContractAddress(account string) (string, error) {
	if account == "" {
		return "", ErrEmptyAccount
	}

	v, err := s.get(ContractAddressKey(account))
	if err != nil {
		return "", err
	}

	return string(v), nil
}

func (s *BoltStore) SetContractAddress(account, contract string) error {
	if account == "" {
		return ErrEmptyAccount
	}

	return s.put(ContractAddressKey(account), []byte(contract))
}

func (s *BoltStore) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, "close bolt db failed")
	}
	return nil
}
