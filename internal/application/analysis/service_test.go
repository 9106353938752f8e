package analysis_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalysis "github.com/bryanwahyu/finsight-ai/internal/application/analysis"
	domain "github.com/bryanwahyu/finsight-ai/internal/domain/analysis"
	"github.com/bryanwahyu/finsight-ai/internal/domain/faults"
)

// mock repository, in-memory
type mockRepo struct {
	mu      sync.Mutex
	records map[domain.RecordID]*domain.Record
	saveErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[domain.RecordID]*domain.Record)}
}

func (m *mockRepo) Save(ctx context.Context, r *domain.Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.records[r.ID] = &cp
	return nil
}

func (m *mockRepo) Get(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepo) List(ctx context.Context) ([]*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Record, 0, len(m.records))
	for _, r := range m.records {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

var _ domain.Repository = (*mockRepo)(nil)

// mock pipeline, jawaban bisa diatur per test
type mockPipeline struct {
	fn func(ctx context.Context, job domain.Job) (string, error)
}

func (m *mockPipeline) Run(ctx context.Context, job domain.Job) (string, error) {
	return m.fn(ctx, job)
}

var _ domain.Pipeline = (*mockPipeline)(nil)

// mock fault log
type mockFaults struct {
	mu      sync.Mutex
	entries []*faults.Fault
}

func (m *mockFaults) Save(ctx context.Context, f *faults.Fault) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, f)
	return nil
}

func (m *mockFaults) Latest(ctx context.Context, limit int) ([]*faults.Fault, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries, nil
}

var _ faults.Log = (*mockFaults)(nil)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newService(t *testing.T, repo domain.Repository, pipe domain.Pipeline, fl faults.Log) (*appanalysis.Service, string) {
	t.Helper()
	workDir := t.TempDir()
	return &appanalysis.Service{
		Repo:     repo,
		Pipeline: pipe,
		Faults:   fl,
		Clock:    fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		WorkDir:  workDir,
		Timeout:  5 * time.Second,
		Logger:   zerolog.Nop(),
	}, workDir
}

func workDirEmpty(t *testing.T, dir string) bool {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries) == 0
}

func TestAnalyzeSuccess(t *testing.T) {
	repo := newMockRepo()
	pipe := &mockPipeline{fn: func(ctx context.Context, job domain.Job) (string, error) {
		// file spool harus ada saat pipeline jalan
		_, err := os.Stat(job.FilePath)
		require.NoError(t, err)
		require.Equal(t, "Summarize revenue trends", job.Query)
		return "Revenue grew 12% year over year.", nil
	}}
	svc, workDir := newService(t, repo, pipe, &mockFaults{})

	rec, err := svc.Analyze(context.Background(), appanalysis.AnalyzeCommand{
		Filename: "revenue_report.pdf",
		Query:    "Summarize revenue trends",
		File:     strings.NewReader("%PDF-1.4 fake"),
	})
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "revenue_report.pdf", rec.Filename)
	assert.Equal(t, "Summarize revenue trends", rec.Query)
	assert.Equal(t, "Revenue grew 12% year over year.", rec.ResultText)
	assert.False(t, rec.CreatedAt.IsZero())

	stored, err := repo.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, stored)

	assert.True(t, workDirEmpty(t, workDir), "temp upload must be removed on success")
}

func TestAnalyzeEmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		repo := newMockRepo()
		pipe := &mockPipeline{fn: func(ctx context.Context, job domain.Job) (string, error) {
			t.Fatal("pipeline must not run for an empty query")
			return "", nil
		}}
		svc, workDir := newService(t, repo, pipe, &mockFaults{})

		_, err := svc.Analyze(context.Background(), appanalysis.AnalyzeCommand{
			Filename: "a.pdf",
			Query:    q,
			File:     strings.NewReader("x"),
		})
		require.ErrorIs(t, err, domain.ErrEmptyQuery)
		assert.Empty(t, repo.records)
		assert.True(t, workDirEmpty(t, workDir))
	}
}

func TestAnalyzePipelineFailure(t *testing.T) {
	repo := newMockRepo()
	fl := &mockFaults{}
	cause := fmt.Errorf("%w: provider exploded", domain.ErrAnalysis)
	pipe := &mockPipeline{fn: func(ctx context.Context, job domain.Job) (string, error) {
		return "", cause
	}}
	svc, workDir := newService(t, repo, pipe, fl)

	_, err := svc.Analyze(context.Background(), appanalysis.AnalyzeCommand{
		Filename: "a.pdf",
		Query:    "q",
		File:     strings.NewReader("x"),
	})
	require.ErrorIs(t, err, domain.ErrAnalysis)
	assert.Empty(t, repo.records, "failed analysis must not create a record")
	assert.True(t, workDirEmpty(t, workDir), "temp upload must be removed on failure")

	require.Len(t, fl.entries, 1)
	assert.Equal(t, faults.StageAnalyze, fl.entries[0].Stage)
}

func TestAnalyzeExtractionFailureFaultStage(t *testing.T) {
	fl := &mockFaults{}
	pipe := &mockPipeline{fn: func(ctx context.Context, job domain.Job) (string, error) {
		return "", fmt.Errorf("%w: broken pdf", domain.ErrExtraction)
	}}
	svc, _ := newService(t, newMockRepo(), pipe, fl)

	_, err := svc.Analyze(context.Background(), appanalysis.AnalyzeCommand{
		Filename: "a.pdf", Query: "q", File: strings.NewReader("x"),
	})
	require.ErrorIs(t, err, domain.ErrExtraction)
	require.Len(t, fl.entries, 1)
	assert.Equal(t, faults.StageExtract, fl.entries[0].Stage)
}

func TestAnalyzeEmptyResult(t *testing.T) {
	repo := newMockRepo()
	pipe := &mockPipeline{fn: func(ctx context.Context, job domain.Job) (string, error) {
		return "   ", nil
	}}
	svc, _ := newService(t, repo, pipe, &mockFaults{})

	_, err := svc.Analyze(context.Background(), appanalysis.AnalyzeCommand{
		Filename: "a.pdf", Query: "q", File: strings.NewReader("x"),
	})
	require.ErrorIs(t, err, domain.ErrAnalysis)
	assert.Empty(t, repo.records)
}

func TestAnalyzeSaveFailureSurfaces(t *testing.T) {
	repo := newMockRepo()
	repo.saveErr = errors.New("disk full")
	pipe := &mockPipeline{fn: func(ctx context.Context, job domain.Job) (string, error) {
		return "ok", nil
	}}
	svc, workDir := newService(t, repo, pipe, &mockFaults{})

	_, err := svc.Analyze(context.Background(), appanalysis.AnalyzeCommand{
		Filename: "a.pdf", Query: "q", File: strings.NewReader("x"),
	})
	require.Error(t, err, "a failed write must not report success")
	assert.True(t, workDirEmpty(t, workDir))
}

func TestAnalyzeConcurrentDistinctIDs(t *testing.T) {
	repo := newMockRepo()
	pipe := &mockPipeline{fn: func(ctx context.Context, job domain.Job) (string, error) {
		return "result for " + job.Query, nil
	}}
	svc, workDir := newService(t, repo, pipe, &mockFaults{})

	const n = 10
	var wg sync.WaitGroup
	ids := make(chan domain.RecordID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := svc.Analyze(context.Background(), appanalysis.AnalyzeCommand{
				Filename: fmt.Sprintf("doc-%d.pdf", i),
				Query:    fmt.Sprintf("query %d", i),
				File:     strings.NewReader("content"),
			})
			assert.NoError(t, err)
			if rec != nil {
				ids <- rec.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[domain.RecordID]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate record id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Len(t, repo.records, n, "no record may be lost or overwritten")
	assert.True(t, workDirEmpty(t, workDir))
}

func TestListSortedNewestFirst(t *testing.T) {
	repo := newMockRepo()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(context.Background(), &domain.Record{
			ID:         domain.RecordID(fmt.Sprintf("id-%d", i)),
			Filename:   "f.pdf",
			Query:      "q",
			ResultText: "r",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}
	svc, _ := newService(t, repo, &mockPipeline{fn: nil}, nil)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, domain.RecordID("id-2"), list[0].ID)
	assert.Equal(t, domain.RecordID("id-0"), list[2].ID)
}
