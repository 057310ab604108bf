// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var walletBucket = []byte("wallets")

// walletKey is the storage key of a record: "wallet_<id>".
func walletKey(id string) []byte {
	return []byte("wallet_" + id)
}

// WalletStore persists WalletRecords in a durable bbolt key-value file.
// It owns every record it has saved; callers serialize concurrent writes
// to the same wallet id themselves.
type WalletStore struct {
	db *bolt.DB
}

// OpenWalletStore opens (creating if needed) the wallet database at path.
func OpenWalletStore(path string) (*WalletStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open wallet store %s: %w: %s", path, ErrStorageFailure, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(walletBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create wallet bucket: %w: %s", ErrStorageFailure, err)
	}
	return &WalletStore{db: db}, nil
}

// Close releases the underlying database file.
func (s *WalletStore) Close() error {
	return s.db.Close()
}

// Save writes the record under wallet_<id>, overwriting any previous
// version. Records from a newer shape version are refused so an old writer
// cannot silently clobber data it does not understand.
func (s *WalletStore) Save(record *WalletRecord) error {
	if record.Version > WalletRecordVersion {
		return fmt.Errorf("wallet %s has record version %d, newer than supported %d: %w",
			record.ID, record.Version, WalletRecordVersion, ErrStorageFailure)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not encode wallet %s: %w: %s", record.ID, ErrStorageFailure, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(walletBucket).Put(walletKey(record.ID), data)
	})
	if err != nil {
		return fmt.Errorf("could not save wallet %s: %w: %s", record.ID, ErrStorageFailure, err)
	}
	return nil
}

// Load retrieves a record by wallet id.
func (s *WalletStore) Load(id string) (*WalletRecord, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(walletBucket).Get(walletKey(id)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not read wallet %s: %w: %s", id, ErrStorageFailure, err)
	}
	if data == nil {
		return nil, fmt.Errorf("wallet %s: %w", id, ErrWalletNotFound)
	}

	var record WalletRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("could not decode wallet %s: %w: %s", id, ErrStorageFailure, err)
	}
	if record.Version > WalletRecordVersion {
		return nil, fmt.Errorf("wallet %s has record version %d, newer than supported %d: %w",
			id, record.Version, WalletRecordVersion, ErrStorageFailure)
	}
	return &record, nil
}

// Delete removes a record. Deleting an unknown id is ErrWalletNotFound so
// callers can tell a no-op from a removal.
func (s *WalletStore) Delete(id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(walletBucket)
		key := walletKey(id)
		if bucket.Get(key) == nil {
			return ErrWalletNotFound
		}
		return bucket.Delete(key)
	})
	if err != nil {
		if err == ErrWalletNotFound {
			return fmt.Errorf("wallet %s: %w", id, ErrWalletNotFound)
		}
		return fmt.Errorf("could not delete wallet %s: %w: %s", id, ErrStorageFailure, err)
	}
	return nil
}

// List returns every stored record, ordered by storage key.
func (s *WalletStore) List() ([]*WalletRecord, error) {
	var records []*WalletRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(walletBucket).ForEach(func(_, v []byte) error {
			var record WalletRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			records = append(records, &record)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("could not list wallets: %w: %s", ErrStorageFailure, err)
	}
	return records, nil
}
