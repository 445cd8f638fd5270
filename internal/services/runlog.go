package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reelforge/reelforge/internal/models"
)

// LogSizeLimit bounds persisted log snapshots so production records stay
// within DynamoDB item limits
const LogSizeLimit = 400 * 1024 // 400KB

// RunLogger collects the append-only, category-tagged log stream for one
// production run. Entries are never mutated or deleted.
type RunLogger struct {
	entries []models.RunLogEntry
	mu      sync.Mutex
}

// NewRunLogger creates a new run logger
func NewRunLogger() *RunLogger {
	return &RunLogger{
		entries: make([]models.RunLogEntry, 0),
	}
}

// Append adds a log entry, assigning its id and timestamp
func (rl *RunLogger) Append(category models.LogCategory, phase models.PhaseName, message string) {
	rl.AppendAsset(category, phase, message, "")
}

// AppendAsset adds a log entry referencing an asset
func (rl *RunLogger) AppendAsset(category models.LogCategory, phase models.PhaseName, message, assetID string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.entries = append(rl.entries, models.RunLogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Category:  category,
		Message:   message,
		Phase:     phase,
		AssetID:   assetID,
	})
}

// restore re-adds an entry from a persisted snapshot, keeping its
// original id and timestamp
func (rl *RunLogger) restore(entry models.RunLogEntry) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.entries = append(rl.entries, entry)
}

// Entries returns all logged entries in append order
func (rl *RunLogger) Entries() []models.RunLogEntry {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Return a copy to prevent external modifications
	out := make([]models.RunLogEntry, len(rl.entries))
	copy(out, rl.entries)
	return out
}

// EntriesWithSizeLimit returns the log entries but truncates if they exceed
// the persistence size limit
func (rl *RunLogger) EntriesWithSizeLimit() []models.RunLogEntry {
	entries := rl.Entries()

	var totalSize int
	var result []models.RunLogEntry

	for _, entry := range entries {
		// Rough size estimation: id (36) + timestamp (25) + category (12) +
		// phase (10) + message (len) + overhead (50)
		entrySize := 133 + len(entry.Message)
		if totalSize+entrySize > LogSizeLimit {
			result = append(result, models.RunLogEntry{
				ID:        uuid.NewString(),
				Timestamp: time.Now(),
				Category:  models.LogCategoryError,
				Message:   "Log output exceeded size limit. Older entries truncated.",
			})
			break
		}
		result = append(result, entry)
		totalSize += entrySize
	}

	return result
}
