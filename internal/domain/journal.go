package domain

import "time"

// JournalEntry records one successful mutation
type JournalEntry struct {
	ID        int64
	Game      string
	Action    string // e.g. "mod.add", "plugin.reorder"
	Subject   string
	Detail    string
	CreatedAt time.Time
}
