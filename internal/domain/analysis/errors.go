package analysis

import "errors"

var (
	// ErrEmptyQuery indicates the caller sent a blank or whitespace-only query.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrNotFound indicates no record exists for the requested id.
	ErrNotFound = errors.New("analysis record not found")
	// ErrExtraction indicates the document could not be read as text.
	ErrExtraction = errors.New("document text extraction failed")
	// ErrAnalysis indicates the agent pipeline or the LLM provider failed.
	ErrAnalysis = errors.New("analysis pipeline failed")
)
