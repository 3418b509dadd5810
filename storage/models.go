package storage

import "time"

// Option is a votable choice. Picks only ever grows between resets.
type Option struct {
	Name  string `json:"name"`
	Picks int    `json:"picks"`
}

// LogEntry is one immutable vote event.
type LogEntry struct {
	ID        string    `json:"id"`
	Option    string    `json:"option"`
	Timestamp time.Time `json:"timestamp"`
}
