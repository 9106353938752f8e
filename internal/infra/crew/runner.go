package crew

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/finsight-ai/internal/domain/agents"
	domai "github.com/bryanwahyu/finsight-ai/internal/domain/ai"
	domain "github.com/bryanwahyu/finsight-ai/internal/domain/analysis"
	"github.com/bryanwahyu/finsight-ai/internal/infra/ai/prompt"
)

// compile-time check terhadap port
var _ domain.Pipeline = (*Runner)(nil)

// Runner jalankan crew secara sekuensial: output task sebelumnya
// jadi catatan untuk task berikutnya. Ekstraksi teks hanya sekali di awal.
type Runner struct {
	LLM       domai.Client
	Extractor domain.Extractor
	Crew      agents.Crew
	Logger    zerolog.Logger
}

func NewRunner(llm domai.Client, ex domain.Extractor, crew agents.Crew, logger zerolog.Logger) (*Runner, error) {
	if err := crew.Validate(); err != nil {
		return nil, fmt.Errorf("invalid crew config: %w", err)
	}
	return &Runner{LLM: llm, Extractor: ex, Crew: crew, Logger: logger}, nil
}

func (r *Runner) Run(ctx context.Context, job domain.Job) (string, error) {
	text, err := r.Extractor.ExtractText(ctx, job.FilePath)
	if err != nil {
		// extractor sudah membungkus ErrExtraction
		return "", err
	}

	var prior string
	for _, task := range r.Crew.Tasks {
		agent := r.Crew.AgentFor(task.Role)

		out, err := r.LLM.Complete(ctx,
			prompt.GetSystemPrompt(*agent),
			prompt.GetUserPrompt(task, job.Query, text, prior),
		)
		if err != nil {
			if errors.Is(err, domai.ErrQuotaExceeded) {
				return "", err
			}
			return "", fmt.Errorf("%w: %s agent: %w", domain.ErrAnalysis, task.Role, err)
		}
		r.Logger.Debug().
			Str("role", string(task.Role)).
			Int("output_chars", len(out)).
			Msg("crew task finished")
		prior = out
	}

	return prior, nil
}
