// Package cache persists reusable credentials, the last volume and the
// device id in a local SQLite database.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/swell/internal/connect"
)

const (
	appName    = "swell"
	dbFileName = "cache.db"

	keyVolume   = "volume"
	keyDeviceID = "device_id"
)

var _ connect.CredentialCache = (*Store)(nil)

// Store is the credential and settings cache.
type Store struct {
	db *sql.DB
}

// OpenDefault opens the cache at the XDG data location.
func OpenDefault() (*Store, error) {
	path, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Open opens or creates the cache at path. Use ":memory:" in tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases consistent.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS credentials (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			username TEXT NOT NULL,
			auth_type INTEGER NOT NULL,
			auth_data BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// Credentials returns the stored credentials, or nil if there are none.
func (s *Store) Credentials() (*connect.Credentials, error) {
	var c connect.Credentials
	row := s.db.QueryRow(`SELECT username, auth_type, auth_data FROM credentials WHERE id = 1`)
	err := row.Scan(&c.Username, &c.AuthType, &c.AuthData)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCredentials replaces the stored credentials.
func (s *Store) SaveCredentials(c connect.Credentials) error {
	_, err := s.db.Exec(`
		INSERT INTO credentials (id, username, auth_type, auth_data, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			auth_type = excluded.auth_type,
			auth_data = excluded.auth_data,
			updated_at = excluded.updated_at
	`, c.Username, c.AuthType, c.AuthData, time.Now().Unix())
	return err
}

// RemoveCredentials deletes the stored credentials.
func (s *Store) RemoveCredentials() error {
	_, err := s.db.Exec(`DELETE FROM credentials`)
	return err
}

// Volume returns the last saved volume.
func (s *Store) Volume() (uint16, bool, error) {
	v, ok, err := s.setting(s.db, keyVolume)
	if err != nil || !ok {
		return 0, false, err
	}
	n, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		return 0, false, err
	}
	return uint16(n), true, nil
}

// SaveVolume stores the volume for the next session.
func (s *Store) SaveVolume(v uint16) error {
	return s.setSetting(s.db, keyVolume, strconv.FormatUint(uint64(v), 10))
}

// DeviceID returns the persistent device id, generating one on first use.
func (s *Store) DeviceID(ctx context.Context) (string, error) {
	var id string
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		v, ok, err := s.setting(tx, keyDeviceID)
		if err != nil {
			return err
		}
		if ok {
			id = v
			return nil
		}
		id = strings.ReplaceAll(uuid.NewString(), "-", "")
		return s.setSetting(tx, keyDeviceID, id)
	})
	return id, err
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Store) setting(q querier, key string) (string, bool, error) {
	var v string
	err := q.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Store) setSetting(q querier, key, value string) error {
	_, err := q.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
