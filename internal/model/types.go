// Package model defines shared data structures.
package model

import "time"

// Config defines tally settings after flags and the config file are merged.
type Config struct {
	Input    string
	Policy   string
	Format   string
	Template string
	Save     bool
}

// Run describes a tally stored in the history database.
type Run struct {
	ID        int64
	CreatedAt time.Time
	Input     string
	Policy    string
	Total     int
	Skipped   int
}
