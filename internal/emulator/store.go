package emulator

import (
	"context"
	"database/sql"
	"fmt"

	"irconsole"
)

// Store is the saved-code persistence the handlers and simulator depend on.
type Store interface {
	List(ctx context.Context) ([]irconsole.SavedCommand, error)
	Insert(ctx context.Context, c irconsole.SavedCommand) (int, error)
	Rename(ctx context.Context, index int, name string) (bool, error)
	Delete(ctx context.Context, index int) (bool, error)
}

// SQLStore keeps saved codes in SQLite. Indexes are assigned by the database
// and stay stable for the lifetime of an entry.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const (
	listCodesSQL  = `SELECT idx, name, protocol, value, bits FROM saved_codes ORDER BY idx`
	insertCodeSQL = `INSERT INTO saved_codes (name, protocol, value, bits) VALUES (?, ?, ?, ?)`
	renameCodeSQL = `UPDATE saved_codes SET name = ? WHERE idx = ?`
	deleteCodeSQL = `DELETE FROM saved_codes WHERE idx = ?`
)

// List returns all stored codes in index order.
func (s *SQLStore) List(ctx context.Context) ([]irconsole.SavedCommand, error) {
	rows, err := s.db.QueryContext(ctx, listCodesSQL)
	if err != nil {
		return nil, fmt.Errorf("list saved codes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []irconsole.SavedCommand
	for rows.Next() {
		var c irconsole.SavedCommand
		if err := rows.Scan(&c.Index, &c.Name, &c.Protocol, &c.Value, &c.Bits); err != nil {
			return nil, fmt.Errorf("scan saved code: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list saved codes: %w", err)
	}
	return out, nil
}

// Insert stores a new code and returns its database-assigned index.
func (s *SQLStore) Insert(ctx context.Context, c irconsole.SavedCommand) (int, error) {
	bits := c.Bits
	if bits == 0 {
		bits = irconsole.DefaultBits
	}
	res, err := s.db.ExecContext(ctx, insertCodeSQL, c.Name, c.Protocol, c.Value, bits)
	if err != nil {
		return 0, fmt.Errorf("insert saved code: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert saved code: %w", err)
	}
	return int(id), nil
}

// Rename updates the display name; reports whether the index existed.
func (s *SQLStore) Rename(ctx context.Context, index int, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, renameCodeSQL, name, index)
	if err != nil {
		return false, fmt.Errorf("rename saved code: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rename saved code: %w", err)
	}
	return n > 0, nil
}

// Delete removes a code; reports whether the index existed.
func (s *SQLStore) Delete(ctx context.Context, index int) (bool, error) {
	res, err := s.db.ExecContext(ctx, deleteCodeSQL, index)
	if err != nil {
		return false, fmt.Errorf("delete saved code: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete saved code: %w", err)
	}
	return n > 0, nil
}
