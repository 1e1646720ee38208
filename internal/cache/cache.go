// Package cache is an incremental compile cache backed by sqlite. Build
// runs key each input by a content hash and skip the compiler when the
// hash is unchanged.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is one cached compilation, keyed by input path.
type Entry struct {
	Path       string `gorm:"primaryKey"`
	Hash       string `gorm:"index"`
	CSS        []byte
	SourceMap  []byte
	CompiledAt time.Time
}

// Store wraps the sqlite-backed cache database.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Hash returns the cache key for an input payload.
func Hash(contents []byte) string {
	sum := sha256.Sum256(contents)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached entry for path when its hash still matches,
// or nil on a miss.
func (s *Store) Lookup(path, hash string) (*Entry, error) {
	var e Entry
	err := s.db.First(&e, "path = ?", path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache lookup for %s: %w", path, err)
	}
	if e.Hash != hash {
		return nil, nil
	}
	return &e, nil
}

// Put records one compilation, replacing any previous entry for the path.
func (s *Store) Put(e *Entry) error {
	if e.CompiledAt.IsZero() {
		e.CompiledAt = time.Now()
	}
	if err := s.db.Save(e).Error; err != nil {
		return fmt.Errorf("cache put for %s: %w", e.Path, err)
	}
	return nil
}

// Prune drops entries older than cutoff and returns how many went.
func (s *Store) Prune(cutoff time.Time) (int64, error) {
	res := s.db.Where("compiled_at < ?", cutoff).Delete(&Entry{})
	if res.Error != nil {
		return 0, fmt.Errorf("pruning cache: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
