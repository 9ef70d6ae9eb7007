package domain

import "time"

// ImportStatus indicates the state of a bulk import job.
type ImportStatus string

const (
	ImportProcessing ImportStatus = "processing"
	ImportCompleted  ImportStatus = "completed"
	ImportFailed     ImportStatus = "failed"
	ImportRolledBack ImportStatus = "rolled_back"
)

// ImportJob tracks a unit of work that bulk-loads external transaction rows into
// the ledger under one shared import identifier. Jobs are process-local and
// non-durable: a restart loses in-flight and historical job records.
type ImportJob struct {
	ImportID     string       `json:"importID"`
	EntityID     string       `json:"entityID"`
	Status       ImportStatus `json:"status"`
	TotalRecords int          `json:"totalRecords"`
	Processed    int          `json:"processedRecords"`
	Progress     int          `json:"progress"` // Integer percent, 0-100
	Errors       []string     `json:"errors"`
	StartedAt    time.Time    `json:"startedAt"`
	CompletedAt  *time.Time   `json:"completedAt"`
}
