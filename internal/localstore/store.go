// Package localstore is the durable local blob store. It mirrors whatever the
// engines hand it under named keys; it never owns data and is always
// available. Corrupt payloads are treated as absent, never as fatal errors.
package localstore

import (
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const (
	// KeyCart holds the serialized cart line list.
	KeyCart = "cart"
	// KeyCatalog holds the serialized product list.
	KeyCatalog = "catalog"
)

var bucketName = []byte("storefront")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Blobs is the persistence contract the engines write through. Load reports
// absence instead of failing: unset and unparseable payloads both yield
// found=false.
type Blobs interface {
	Save(key string, value interface{}) error
	Load(key string, out interface{}) (found bool, err error)
	Delete(key string) error
}

// BoltStore implements Blobs on a single-file bbolt database.
type BoltStore struct {
	db *bolt.DB
}

var _ Blobs = (*BoltStore)(nil)

// NewBoltStore opens (creating if needed) the blob database under dir.
func NewBoltStore(dir string) (*BoltStore, error) {
	db, err := bolt.Open(filepath.Join(dir, "storefront.db"), 0o600,
		&bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open local store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init local store bucket")
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Save(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "marshal blob %s", key)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), data)
	})
	return errors.Wrapf(err, "save blob %s", key)
}

func (s *BoltStore) Load(key string, out interface{}) (bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			data = append(data, v...)
		}
		return nil
	})
	if err != nil {
		return false, errors.Wrapf(err, "load blob %s", key)
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Corrupt payload is treated as absent.
		zap.S().Warnf("local store: discarding corrupt blob %s: %s", key, err)
		return false, nil
	}
	return true, nil
}

func (s *BoltStore) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	return errors.Wrapf(err, "delete blob %s", key)
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
