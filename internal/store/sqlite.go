// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "equilibrium-coach/internal/errors"
	"equilibrium-coach/internal/models"
)

// SQLiteStore implements DataStore using SQLite. Trades are kept as one
// JSON document per row alongside a few indexed scalar columns, so the
// nested object graph survives round-trips without a table per struct.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (or creates) the journal database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Trades table: one row per journal entry, full object in body
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		trade_datetime DATETIME NOT NULL,
		status TEXT NOT NULL,
		account_id TEXT,
		market TEXT,
		asset TEXT,
		setup TEXT,
		quality_score REAL,
		body TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Documents table for singleton payloads (profile, chat history)
	CREATE TABLE IF NOT EXISTS documents (
		key TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_datetime ON trades(trade_datetime);
	CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status);
	CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadTrades returns every stored trade, normalized, newest first.
func (s *SQLiteStore) LoadTrades(ctx context.Context) ([]models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM trades ORDER BY trade_datetime DESC`)
	if err != nil {
		return nil, apperrors.NewStoreError("load trades", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, apperrors.NewStoreError("scan trade", err)
		}
		var t models.Trade
		if err := json.Unmarshal([]byte(body), &t); err != nil {
			// Skip rows a newer schema cannot read instead of
			// taking the whole journal down with them.
			continue
		}
		trades = append(trades, NormalizeTrade(t))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("load trades", err)
	}
	return trades, nil
}

// SaveTrades replaces the stored trade collection atomically.
func (s *SQLiteStore) SaveTrades(ctx context.Context, trades []models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("save trades", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades`); err != nil {
		return apperrors.NewStoreError("save trades", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades (id, trade_datetime, status, account_id, market, asset, setup, quality_score, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return apperrors.NewStoreError("save trades", err)
	}
	defer stmt.Close()

	for i := range trades {
		t := &trades[i]
		body, err := json.Marshal(t)
		if err != nil {
			return apperrors.NewStoreError("encode trade", err)
		}
		_, err = stmt.ExecContext(ctx,
			t.ID, t.TradeDateTime, string(t.Status), t.AccountID,
			string(t.Market), t.Asset, t.Setup, t.QualityScore, string(body))
		if err != nil {
			return apperrors.NewStoreError("save trades", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("save trades", err)
	}
	return nil
}

// LoadProfile returns the stored profile, or nil when none exists.
func (s *SQLiteStore) LoadProfile(ctx context.Context) (*models.UserProfile, error) {
	body, err := s.loadDocument(ctx, "profile")
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, nil
	}
	var p models.UserProfile
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, apperrors.NewStoreError("decode profile", err)
	}
	return NormalizeProfile(&p), nil
}

// SaveProfile persists the profile document.
func (s *SQLiteStore) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	body, err := json.Marshal(profile)
	if err != nil {
		return apperrors.NewStoreError("encode profile", err)
	}
	return s.saveDocument(ctx, "profile", string(body))
}

// LoadChats returns the stored coach conversation.
func (s *SQLiteStore) LoadChats(ctx context.Context) ([]models.ChatMessage, error) {
	body, err := s.loadDocument(ctx, "chats")
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, nil
	}
	var chats []models.ChatMessage
	if err := json.Unmarshal([]byte(body), &chats); err != nil {
		return nil, apperrors.NewStoreError("decode chats", err)
	}
	return chats, nil
}

// SaveChats persists the coach conversation.
func (s *SQLiteStore) SaveChats(ctx context.Context, chats []models.ChatMessage) error {
	body, err := json.Marshal(chats)
	if err != nil {
		return apperrors.NewStoreError("encode chats", err)
	}
	return s.saveDocument(ctx, "chats", string(body))
}

func (s *SQLiteStore) loadDocument(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE key = ?`, key).Scan(&body)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewStoreError("load "+key, err)
	}
	return body, nil
}

func (s *SQLiteStore) saveDocument(ctx context.Context, key, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (key, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
		key, body)
	if err != nil {
		return apperrors.NewStoreError("save "+key, err)
	}
	return nil
}
