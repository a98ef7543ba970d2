package repositories

import (
	"chat-relay/errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Censored words live in the keys, values stay empty.
const blacklistPrefix = "blacklist:"

func AddCensoredWords(db *badger.DB, words []string) error {
	wb := db.NewWriteBatch()
	defer wb.Cancel()
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if err := wb.Set([]byte(blacklistPrefix+w), nil); err != nil {
			return fmt.Errorf("%w: %w", errors.ErrRepositoryDatabase, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrRepositoryDatabase, err)
	}
	return nil
}

func LoadCensoredWords(db *badger.DB) ([]string, error) {
	var words []string
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // words are in the keys
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(blacklistPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			words = append(words, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrRepositoryDatabase, err)
	}
	return words, nil
}
