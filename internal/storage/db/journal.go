package db

import (
	"fmt"

	"meo/internal/domain"
)

// AppendJournal records a mutation
func (d *DB) AppendJournal(game, action, subject, detail string) error {
	_, err := d.Exec(`
		INSERT INTO journal (game, action, subject, detail)
		VALUES (?, ?, ?, ?)
	`, game, action, subject, detail)
	if err != nil {
		return fmt.Errorf("appending journal: %w", err)
	}
	return nil
}

// RecentJournal returns up to limit entries for game, newest first.
// An empty game returns entries for all games.
func (d *DB) RecentJournal(game string, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.Query(`
		SELECT id, game, action, subject, COALESCE(detail, ''), created_at
		FROM journal
		WHERE ? = '' OR game = ?
		ORDER BY id DESC
		LIMIT ?
	`, game, game, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.ID, &e.Game, &e.Action, &e.Subject, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RenameJournalGame moves history from one game name to another
func (d *DB) RenameJournalGame(oldName, newName string) error {
	if _, err := d.Exec(`UPDATE journal SET game = ? WHERE game = ?`, newName, oldName); err != nil {
		return fmt.Errorf("renaming journal game: %w", err)
	}
	return nil
}
