// Package evals measures end-to-end answer quality of a pipeline against a
// question set with known time-sensitive answers.
package evals

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lindenhart/freshet/pipeline"
)

// Question pairs a query with the answer string that the freshest correct
// document contains.
type Question struct {
	Question   string `json:"question"`
	GoldLatest string `json:"gold_latest"`
}

// Outcome records how one question resolved.
type Outcome struct {
	Question Question
	Hit      bool
	TopID    string
	K        int
	Halted   bool
}

// Report aggregates a full evaluation run.
type Report struct {
	N          int
	Hits       int
	ExactMatch float64
	MeanK      float64
	Outcomes   []Outcome
}

// Evaluator runs questions through a pipeline and scores top-1 answers.
type Evaluator struct {
	pipe   *pipeline.Pipeline
	logger *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Evaluator over a pipeline.
func New(pipe *pipeline.Pipeline, opts ...Option) (*Evaluator, error) {
	if pipe == nil {
		return nil, ErrPipelineRequired
	}
	e := &Evaluator{pipe: pipe, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// LoadQuestions reads a JSONL question file. Blank lines are skipped.
func LoadQuestions(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening question file: %w", err)
	}
	defer f.Close()

	var questions []Question
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var q Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if q.Question == "" || q.GoldLatest == "" {
			return nil, fmt.Errorf("%w: line %d", ErrMalformedQuestion, line)
		}
		questions = append(questions, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading question file: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

// Run evaluates every question at the given reference time. A question counts
// as a hit when the top-ranked snippet contains the gold answer,
// case-insensitively.
func (e *Evaluator) Run(ctx context.Context, questions []Question, now time.Time) (*Report, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	report := &Report{N: len(questions)}
	var kSum int
	for _, q := range questions {
		resp, err := e.pipe.Run(ctx, q.Question, now)
		if err != nil {
			return nil, fmt.Errorf("evaluating %q: %w", q.Question, err)
		}

		out := Outcome{Question: q, K: resp.Meta.K, Halted: resp.Meta.Halted}
		if len(resp.Results) > 0 {
			top := resp.Results[0]
			out.TopID = top.ID
			out.Hit = strings.Contains(strings.ToLower(top.Snippet), strings.ToLower(q.GoldLatest))
		}
		if out.Hit {
			report.Hits++
		}
		kSum += out.K
		report.Outcomes = append(report.Outcomes, out)

		e.logger.Debug("question evaluated",
			"question", q.Question,
			"hit", out.Hit,
			"top_id", out.TopID,
			"k", out.K)
	}

	report.ExactMatch = float64(report.Hits) / float64(report.N)
	report.MeanK = float64(kSum) / float64(report.N)
	return report, nil
}
