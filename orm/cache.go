package orm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SearchCache stores a serialized search payload keyed by its cache key
type SearchCache struct {
	Key       string `gorm:"primaryKey;size:512"`
	Value     []byte
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

func (SearchCache) TableName() string {
	return "search_cache"
}

// Open connects to a sqlite or postgres database
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	return db, nil
}

// CacheStore is a SQL-backed shared cache for search payloads
type CacheStore struct {
	db *gorm.DB

	// Now is the clock used for expiry checks.
	Now func() time.Time
}

// NewCacheStore migrates the cache table and returns a store over it
func NewCacheStore(db *gorm.DB) (*CacheStore, error) {
	if err := db.AutoMigrate(&SearchCache{}); err != nil {
		return nil, fmt.Errorf("failed to migrate search cache: %w", err)
	}
	return &CacheStore{db: db, Now: time.Now}, nil
}

// Get retrieves a valid cache entry
func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, time.Duration, bool, error) {
	var entry SearchCache
	now := s.Now()
	err := s.db.WithContext(ctx).Where("key = ? AND expires_at > ?", key, now).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	return entry.Value, entry.ExpiresAt.Sub(now), true, nil
}

// Set upserts a cache entry
func (s *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := s.Now()
	entry := SearchCache{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error
}

func (s *CacheStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&SearchCache{}).Error
}

func (s *CacheStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CleanupCache removes expired entries and reports how many were dropped
func (s *CacheStore) CleanupCache(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.Now()).Delete(&SearchCache{})
	return res.RowsAffected, res.Error
}

// Close releases the underlying connection pool
func (s *CacheStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
