// Package localstore keeps per-device settings (the pairing code, which
// partner this device belongs to, display names) in a local SQLite file, so
// a couple pairs once and stays paired across restarts.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"lovespace/internal/core"
)

// Setting keys. The first two predate this storage layer and keep their
// original names so existing devices stay paired after an upgrade.
const (
	KeySecretCode = "couple_secret_code"
	KeyIdentity   = "couple_identity"
	KeyBoyName    = "boy_name"
	KeyGirlName   = "girl_name"
)

var ErrKeyNotFound = errors.New("setting not found")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("remove setting %s: %w", key, err)
	}
	return nil
}

// Session is the device's pairing state. Role is empty until the device
// picks an identity.
type Session struct {
	SecretCode string
	Role       core.Role
	BoyName    string
	GirlName   string
}

// LoadSession reads the pairing state, treating missing keys as empty.
func (s *Store) LoadSession(ctx context.Context) (Session, error) {
	var sess Session
	var err error
	if sess.SecretCode, err = s.getOrEmpty(ctx, KeySecretCode); err != nil {
		return Session{}, err
	}
	identity, err := s.getOrEmpty(ctx, KeyIdentity)
	if err != nil {
		return Session{}, err
	}
	sess.Role = core.Role(identity)
	if sess.BoyName, err = s.getOrEmpty(ctx, KeyBoyName); err != nil {
		return Session{}, err
	}
	if sess.GirlName, err = s.getOrEmpty(ctx, KeyGirlName); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// SaveSession persists the pairing state, skipping empty fields so a
// partial save never wipes what is already stored.
func (s *Store) SaveSession(ctx context.Context, sess Session) error {
	pairs := []struct{ key, value string }{
		{KeySecretCode, sess.SecretCode},
		{KeyIdentity, string(sess.Role)},
		{KeyBoyName, sess.BoyName},
		{KeyGirlName, sess.GirlName},
	}
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		if err := s.Set(ctx, p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// ClearSession unpairs the device.
func (s *Store) ClearSession(ctx context.Context) error {
	for _, key := range []string{KeySecretCode, KeyIdentity, KeyBoyName, KeyGirlName} {
		if err := s.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) getOrEmpty(ctx context.Context, key string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	return v, err
}
