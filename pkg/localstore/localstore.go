package localstore

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/krugstergaming/Greenhouse/pkg/config"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
	"github.com/krugstergaming/Greenhouse/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Well-known entry keys.
const (
	KeyToken   = "token"
	KeyUser    = "user"
	KeyIsAdmin = "is_admin"

	termsPrefix = "terms_accepted_"
)

// TermsKey returns the per-identity terms acceptance key. Acceptance is
// tracked per account, not per device, so the key carries the identity.
func TermsKey(identityKey string) string {
	return termsPrefix + identityKey
}

type entry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (entry) TableName() string { return "entries" }

// Store is a durable key/value store backing session state between
// process runs.
type Store struct {
	conn *gorm.DB
}

// New opens the store at the configured path, creating the schema on
// first run.
func New(ctx context.Context, cfg config.StoreConfig, logg *logger.Logger) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	if err := conn.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrating local store: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "local store opened")
	}

	return &Store{conn: conn}, nil
}

// Set writes a single entry, replacing any existing value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	res := s.conn.WithContext(ctx).
		Exec("INSERT INTO entries (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", key, value)
	if res.Error != nil {
		return errors.Wrap(errors.CodeInternal, res.Error, "writing local store entry")
	}
	return nil
}

// Get reads a single entry. A missing key returns ok=false, not an error.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var e entry
	res := s.conn.WithContext(ctx).First(&e, "key = ?", key)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, errors.Wrap(errors.CodeInternal, res.Error, "reading local store entry")
	}
	return e.Value, true, nil
}

// Delete removes a single entry. Deleting a missing key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	res := s.conn.WithContext(ctx).Delete(&entry{}, "key = ?", key)
	if res.Error != nil {
		return errors.Wrap(errors.CodeInternal, res.Error, "deleting local store entry")
	}
	return nil
}

// ReplaceSession atomically swaps the token, user, and admin-flag
// entries so a crash mid-login never leaves a partial session behind.
func (s *Store) ReplaceSession(ctx context.Context, token, user, isAdmin string) error {
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		for _, e := range []entry{
			{Key: KeyToken, Value: token},
			{Key: KeyUser, Value: user},
			{Key: KeyIsAdmin, Value: isAdmin},
		} {
			res := tx.Exec("INSERT INTO entries (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", e.Key, e.Value)
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "replacing session entries")
	}
	return nil
}

// ClearSession atomically removes the token, user, and admin-flag
// entries. Per-identity flags such as terms acceptance survive logout.
func (s *Store) ClearSession(ctx context.Context) error {
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		res := tx.Delete(&entry{}, "key IN ?", []string{KeyToken, KeyUser, KeyIsAdmin})
		return res.Error
	})
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "clearing session entries")
	}
	return nil
}

// Close shuts down the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := s.conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
