package sql

import (
	"sort"
	"sync"

	"github.com/genericbot/genericbot/logger"
	"github.com/genericbot/genericbot/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// prefixService caches the prefixes of every chat it has looked up. The
// processor asks for them on every message.
type prefixService struct {
	*sqlx.DB
	log   zerolog.Logger
	mu    sync.RWMutex
	cache map[int64][]string
}

func NewPrefixService(db *sqlx.DB) *prefixService {
	return &prefixService{
		DB:    db,
		log:   logger.New("prefixService"),
		cache: make(map[int64][]string),
	}
}

func sortPrefixes(prefixes []string) {
	// Longest first, so "#!!" wins over "#!".
	sort.SliceStable(prefixes, func(i, j int) bool {
		return len(prefixes[i]) > len(prefixes[j])
	})
}

func (db *prefixService) Prefixes(chatID int64) ([]string, error) {
	db.mu.RLock()
	prefixes, ok := db.cache[chatID]
	db.mu.RUnlock()
	if ok {
		return prefixes, nil
	}

	const query = `SELECT prefix FROM chat_prefixes WHERE chat_id = ? ORDER BY prefix`
	prefixes = make([]string, 0)
	if err := db.Select(&prefixes, query, chatID); err != nil {
		return nil, err
	}
	sortPrefixes(prefixes)

	db.mu.Lock()
	db.cache[chatID] = prefixes
	db.mu.Unlock()

	return prefixes, nil
}

func (db *prefixService) Add(chatID int64, prefix string) error {
	const query = `INSERT IGNORE INTO chat_prefixes (chat_id, prefix) VALUES (?, ?)`
	res, err := db.Exec(query, chatID, prefix)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrAlreadyExists
	}

	db.invalidate(chatID)
	return nil
}

func (db *prefixService) Remove(chatID int64, prefix string) error {
	const query = `DELETE FROM chat_prefixes WHERE chat_id = ? AND prefix = ?`
	res, err := db.Exec(query, chatID, prefix)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	db.invalidate(chatID)
	return nil
}

func (db *prefixService) invalidate(chatID int64) {
	db.mu.Lock()
	delete(db.cache, chatID)
	db.mu.Unlock()
}
