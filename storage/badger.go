package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/langpoll/langpoll/logging"
)

const (
	optionPrefix = "option#"
	logPrefix    = "log#"
	logSeqKey    = "meta#logseq"
)

type badgerOption struct {
	Picks    int `json:"picks"`
	Position int `json:"position"`
}

// BadgerOptionStore is the embedded KV backend. A vote touches the option
// record, the sequence counter and the log entry inside one transaction.
type BadgerOptionStore struct {
	db *badger.DB
}

func NewBadgerOptionStore(path string) (*BadgerOptionStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &BadgerOptionStore{db: db}, nil
}

func (s *BadgerOptionStore) ListOptions(_ context.Context) ([]*Option, error) {
	var (
		options   []*Option
		positions = make(map[string]int)
	)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(optionPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			name := string(item.Key()[len(optionPrefix):])
			err := item.Value(func(val []byte) error {
				var o badgerOption
				if err := json.Unmarshal(val, &o); err != nil {
					return err
				}
				options = append(options, &Option{Name: name, Picks: o.Picks})
				positions[name] = o.Position
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logging.Log.Errorf("STORE: badger list failed: %v", err)
		return nil, err
	}
	// badger iterates keys lexically, restore seed order
	sort.Slice(options, func(i, j int) bool {
		return positions[options[i].Name] < positions[options[j].Name]
	})
	return options, nil
}

func (s *BadgerOptionStore) RecordVote(_ context.Context, option string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(optionPrefix + option)
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			// unknown option, tolerated as a no-op
			return nil
		}
		if err != nil {
			return err
		}

		var o badgerOption
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &o)
		}); err != nil {
			return err
		}
		o.Picks++

		encoded, err := json.Marshal(o)
		if err != nil {
			return err
		}
		if err := txn.Set(key, encoded); err != nil {
			return err
		}

		seq, err := nextLogSeq(txn)
		if err != nil {
			return err
		}
		id, err := newEntryID()
		if err != nil {
			return err
		}
		entry, err := json.Marshal(&LogEntry{
			ID:        id,
			Option:    option,
			Timestamp: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		return txn.Set([]byte(fmt.Sprintf("%s%020d", logPrefix, seq)), entry)
	})
	if err != nil {
		logging.Log.Errorf("STORE: badger vote failed: %v", err)
	}
	return err
}

func nextLogSeq(txn *badger.Txn) (uint64, error) {
	var seq uint64
	item, err := txn.Get([]byte(logSeqKey))
	if err == nil {
		err = item.Value(func(val []byte) error {
			seq = binary.BigEndian.Uint64(val)
			return nil
		})
	}
	if err != nil && err != badger.ErrKeyNotFound {
		return 0, err
	}
	seq++

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return seq, txn.Set([]byte(logSeqKey), buf)
}

func (s *BadgerOptionStore) History(_ context.Context) ([]*LogEntry, error) {
	var entries []*LogEntry
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(logPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var e LogEntry
				if err := json.Unmarshal(val, &e); err != nil {
					return err
				}
				entries = append(entries, &e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logging.Log.Errorf("STORE: badger history failed: %v", err)
		return nil, err
	}
	return entries, nil
}

func (s *BadgerOptionStore) ClearAll(_ context.Context) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var (
			logKeys [][]byte
			resets  []struct {
				key   []byte
				value badgerOption
			}
		)

		// collect first, mutate after the iterator is closed
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		for it.Seek([]byte(logPrefix)); it.ValidForPrefix([]byte(logPrefix)); it.Next() {
			logKeys = append(logKeys, it.Item().KeyCopy(nil))
		}
		for it.Seek([]byte(optionPrefix)); it.ValidForPrefix([]byte(optionPrefix)); it.Next() {
			item := it.Item()
			var o badgerOption
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &o)
			}); err != nil {
				it.Close()
				return err
			}
			o.Picks = 0
			resets = append(resets, struct {
				key   []byte
				value badgerOption
			}{item.KeyCopy(nil), o})
		}
		it.Close()

		for _, key := range logKeys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for _, r := range resets {
			encoded, err := json.Marshal(r.value)
			if err != nil {
				return err
			}
			if err := txn.Set(r.key, encoded); err != nil {
				return err
			}
		}
		return txn.Delete([]byte(logSeqKey))
	})
	if err != nil {
		logging.Log.Errorf("STORE: badger clear failed: %v", err)
	}
	return err
}

func (s *BadgerOptionStore) EnsureOptions(_ context.Context, names []string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for i, name := range names {
			key := []byte(optionPrefix + name)
			if _, err := txn.Get(key); err == nil {
				continue
			} else if err != badger.ErrKeyNotFound {
				return err
			}
			encoded, err := json.Marshal(badgerOption{Picks: 0, Position: i})
			if err != nil {
				return err
			}
			if err := txn.Set(key, encoded); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logging.Log.Errorf("STORE: badger seed failed: %v", err)
	}
	return err
}

func (s *BadgerOptionStore) Close() error {
	return s.db.Close()
}
