package db

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"sqlchat/models"
)

// DB keeps conversation messages in an in-memory badger instance. Nothing is
// written to disk; messages live as long as the process.
type DB struct {
	badgerDB *badger.DB
	seq      atomic.Uint64
}

func New() (*DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open message store: %w", err)
	}

	return &DB{badgerDB: badgerDB}, nil
}

func (d *DB) Close() error {
	return d.badgerDB.Close()
}

func sessionPrefix(sessionID string) []byte {
	return []byte(fmt.Sprintf("msg:%s:", sessionID))
}

// Append stores msg after every message already stored for sessionID.
func (d *DB) Append(sessionID string, msg models.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// Zero padded so lexical key order is insertion order.
	key := append(sessionPrefix(sessionID), []byte(fmt.Sprintf("%020d", d.seq.Add(1)))...)

	return d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// List returns the messages of sessionID in insertion order.
func (d *DB) List(sessionID string) ([]models.Message, error) {
	messages := []models.Message{}

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = sessionPrefix(sessionID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var msg models.Message
				if err := json.Unmarshal(val, &msg); err != nil {
					return fmt.Errorf("failed to unmarshal message: %w", err)
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return messages, err
}

// Delete drops every message of sessionID.
func (d *DB) Delete(sessionID string) error {
	var keys [][]byte
	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = sessionPrefix(sessionID)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to list session %s: %w", sessionID, err)
	}

	wb := d.badgerDB.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
		}
	}
	return wb.Flush()
}
