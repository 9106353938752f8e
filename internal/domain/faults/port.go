package faults

import "context"

// Log defines persistence for pipeline faults
type Log interface {
	Save(ctx context.Context, f *Fault) error
	Latest(ctx context.Context, limit int) ([]*Fault, error)
}
