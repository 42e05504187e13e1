package order

import "time"

// HistoryEntry is one record of the append-only status log.
type HistoryEntry struct {
	Status    Status
	Timestamp time.Time
	UpdatedBy string
	Notes     string
}
