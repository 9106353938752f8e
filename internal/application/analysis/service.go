package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "github.com/bryanwahyu/finsight-ai/internal/domain/analysis"
	"github.com/bryanwahyu/finsight-ai/internal/domain/faults"
)

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Service implements use-cases untuk analisa dokumen.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Repo     domain.Repository
	Pipeline domain.Pipeline
	Archive  domain.ArchiveStore // optional, boleh nil
	Faults   faults.Log          // optional, boleh nil
	Clock    Clock
	WorkDir  string
	Timeout  time.Duration
	Logger   zerolog.Logger
}

//
// ==== USE CASES ====
//

// Command untuk satu permintaan analisa
type AnalyzeCommand struct {
	Filename string
	Query    string
	File     io.Reader
}

// Analyze jalankan pipeline: spool upload -> run crew -> arsip -> simpan record.
// File sementara selalu dihapus, apapun hasilnya.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*domain.Record, error) {
	query := strings.TrimSpace(cmd.Query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	tmpPath, err := s.spool(cmd.File)
	if err != nil {
		s.recordFault(faults.StageIngest, cmd.Filename, query, err)
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	// Hapus file lokal di setiap exit path
	defer os.Remove(tmpPath)

	runCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	// jalankan pipeline sekali, tanpa retry
	result, err := s.Pipeline.Run(runCtx, domain.Job{FilePath: tmpPath, Query: query})
	if err != nil {
		s.recordFault(stageFor(err), cmd.Filename, query, err)
		return nil, err
	}
	if strings.TrimSpace(result) == "" {
		err := fmt.Errorf("%w: pipeline returned empty result", domain.ErrAnalysis)
		s.recordFault(faults.StageAnalyze, cmd.Filename, query, err)
		return nil, err
	}

	rec := &domain.Record{
		ID:         domain.RecordID(uuid.New().String()),
		Filename:   cmd.Filename,
		Query:      query,
		ResultText: result,
		CreatedAt:  s.Clock.Now(),
	}

	// arsip dokumen sumber; gagal arsip tidak membatalkan analisa
	if s.Archive != nil {
		key := fmt.Sprintf("uploads/%s/%s", rec.ID, filepath.Base(cmd.Filename))
		url, aerr := s.Archive.Upload(ctx, tmpPath, key)
		if aerr != nil {
			s.Logger.Warn().Err(aerr).Str("id", string(rec.ID)).Msg("source archive failed")
			s.recordFault(faults.StageArchive, cmd.Filename, query, aerr)
		} else {
			rec.SourceURL = url
		}
	}

	if err := s.Repo.Save(ctx, rec); err != nil {
		s.recordFault(faults.StagePersist, cmd.Filename, query, err)
		return nil, fmt.Errorf("save record: %w", err)
	}

	return rec, nil
}

// List semua record, terbaru duluan
func (s *Service) List(ctx context.Context) ([]domain.Summary, error) {
	recs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].ID > recs[j].ID
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	out := make([]domain.Summary, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Summarize())
	}
	return out, nil
}

// Get ambil 1 record by id
func (s *Service) Get(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	return s.Repo.Get(ctx, id)
}

// LatestFaults ambil N entri fault terakhir
func (s *Service) LatestFaults(ctx context.Context, limit int) ([]*faults.Fault, error) {
	if s.Faults == nil {
		return nil, nil
	}
	return s.Faults.Latest(ctx, limit)
}

// spool tulis upload ke file unik di WorkDir
func (s *Service) spool(src io.Reader) (string, error) {
	f, err := os.CreateTemp(s.WorkDir, "upload-*.pdf")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// recordFault catat kegagalan ke fault log, best-effort
func (s *Service) recordFault(stage faults.Stage, filename, query string, cause error) {
	if s.Faults == nil {
		return
	}
	f := &faults.Fault{
		ID:        uuid.New().String(),
		Stage:     stage,
		Filename:  filename,
		Query:     query,
		Message:   cause.Error(),
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Faults.Save(context.Background(), f); err != nil {
		s.Logger.Warn().Err(err).Msg("fault log write failed")
	}
}

// helper
func stageFor(err error) faults.Stage {
	if errors.Is(err, domain.ErrExtraction) {
		return faults.StageExtract
	}
	return faults.StageAnalyze
}
