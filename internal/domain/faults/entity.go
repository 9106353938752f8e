package faults

import "time"

// Stage enum: di tahap mana pipeline gagal
type Stage string

const (
	StageIngest  Stage = "ingest"
	StageExtract Stage = "extract"
	StageAnalyze Stage = "analyze"
	StageArchive Stage = "archive"
	StagePersist Stage = "persist"
)

// Fault represents a persisted pipeline failure entry
type Fault struct {
	ID        string    `json:"id"`
	Stage     Stage     `json:"stage"`
	Filename  string    `json:"filename,omitempty"`
	Query     string    `json:"query,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
