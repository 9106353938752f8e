package analysis

import (
	"time"
)

// ID tipe untuk AnalysisRecord
type RecordID string

// Aggregate Root: AnalysisRecord
// Immutable setelah disimpan; satu record per analisa yang sukses.
type Record struct {
	ID         RecordID  `json:"id"`
	Filename   string    `json:"filename"`
	Query      string    `json:"query"`
	ResultText string    `json:"result_text"`
	SourceURL  string    `json:"source_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary untuk listing endpoint (tanpa result_text)
type Summary struct {
	ID        RecordID  `json:"id"`
	Filename  string    `json:"filename"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
}

// Summarize buang body hasil, sisakan metadata
func (r *Record) Summarize() Summary {
	return Summary{
		ID:        r.ID,
		Filename:  r.Filename,
		Query:     r.Query,
		CreatedAt: r.CreatedAt,
	}
}

// Job unit kerja yang dikirim ke pipeline; tidak dipersist
type Job struct {
	FilePath string
	Query    string
}
