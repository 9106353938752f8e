package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id RecordID) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
}

// Pipeline port (interface untuk orkestrasi agent eksternal)
type Pipeline interface {
	Run(ctx context.Context, job Job) (string, error)
}

// Extractor port (interface untuk ekstraksi teks dokumen)
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// ArchiveStore port (interface untuk arsip dokumen sumber)
type ArchiveStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}
