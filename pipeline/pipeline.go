package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lindenhart/freshet/budget"
	"github.com/lindenhart/freshet/core"
	"github.com/lindenhart/freshet/corpus"
	"github.com/lindenhart/freshet/decay"
	"github.com/lindenhart/freshet/fusion"
	"github.com/lindenhart/freshet/graph"
	"github.com/lindenhart/freshet/retrieval"
)

const (
	// decisionWindow is how many leading fused scores the halting policy sees.
	decisionWindow = 5

	// maxResults caps the number of results returned per query.
	maxResults = 10

	// snippetRunes is the maximum snippet length in runes.
	snippetRunes = 400
)

// Result is one ranked document in a response, with its full score breakdown.
type Result struct {
	ID        string             `json:"id"`
	Timestamp string             `json:"timestamp"`
	Score     float64            `json:"score"`
	Parts     map[string]float64 `json:"parts"`
	Snippet   string             `json:"snippet"`
}

// Meta records how the escalation loop resolved: the budget it stopped at,
// whether the halting policy fired or the stages ran out, and the decay
// parameters the query was assigned.
type Meta struct {
	K       int     `json:"k"`
	Halted  bool    `json:"halted"`
	Reason  string  `json:"reason"`
	Delta   float64 `json:"delta"`
	TauDays float64 `json:"tau_days"`
}

// Response is the answer to one query.
type Response struct {
	Query   string   `json:"query"`
	TraceID string   `json:"trace_id"`
	Meta    Meta     `json:"meta"`
	Results []Result `json:"results"`
}

// Pipeline runs the full query path: staged retrieval, evidence-graph
// centrality, query-adaptive time decay, score fusion, and budget-aware
// halting. A Pipeline is immutable after construction and safe for
// concurrent use.
type Pipeline struct {
	cfg       Config
	retriever *retrieval.Retriever
	store     *corpus.Store
	model     *decay.Model
	policy    *budget.Policy
	monitor   StageMonitor
	pageRank  bool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMonitor attaches a StageMonitor that observes every stage of the
// escalation loop.
func WithMonitor(m StageMonitor) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.monitor = m
		}
	}
}

// WithPageRank switches the centrality part from weighted degree to the
// PageRank variant.
func WithPageRank() Option {
	return func(p *Pipeline) {
		p.pageRank = true
	}
}

// New creates a Pipeline over a built retriever and a loaded corpus store.
// The configuration is validated up front; a pipeline that constructs
// cleanly cannot fail on config at query time.
func New(retriever *retrieval.Retriever, store *corpus.Store, cfg Config, opts ...Option) (*Pipeline, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if store == nil {
		return nil, ErrCorpusRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:       cfg,
		retriever: retriever,
		store:     store,
		model:     decay.New(cfg.BaseDelta, cfg.MinTau, cfg.MaxTau),
		policy:    budget.New(cfg.MarginThresh, cfg.AgreeThresh, cfg.AgreeK),
		monitor:   &noopMonitor{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes the escalation loop for one query. Each stage retrieves with
// the next budget, rebuilds the evidence graph and decay values over the new
// candidate set, fuses, and asks the halting policy whether the ranking is
// settled. A zero now means the current UTC time.
func (p *Pipeline) Run(ctx context.Context, query string, now time.Time) (*Response, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	traceID := uuid.NewString()
	dp := p.model.ParamsForQuery(query)

	weights := map[string]float64{
		core.PartLexical:    p.cfg.Alpha,
		core.PartSemantic:   p.cfg.Beta,
		core.PartCentrality: p.cfg.Gamma,
		core.PartDecay:      dp.Delta,
	}

	logger := p.logger.With("trace_id", traceID)
	logger.Debug("query start",
		"query", query,
		"delta", dp.Delta,
		"tau_days", dp.TauDays)

	var (
		results  []core.ScoredResult
		decision budget.Decision
		lastK    int
	)
	for _, k := range p.cfg.KStages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lastK = k
		p.monitor.StageStart(k)

		candidates := p.retriever.Retrieve(query, k, p.cfg.Alpha, p.cfg.Beta)
		p.monitor.AfterRetrieval(k, candidates)

		var err error
		results, err = p.scoreStage(candidates, dp, weights, now, k)
		if err != nil {
			return nil, err
		}
		p.monitor.AfterScoring(k, results)

		decision = p.decide(results)
		p.monitor.StageDecision(k, decision)
		logger.Debug("stage decision",
			"k", k,
			"halt", decision.Halt,
			"reason", decision.Reason)
		if decision.Halt {
			break
		}
	}

	resp := &Response{
		Query:   query,
		TraceID: traceID,
		Meta: Meta{
			K:       lastK,
			Halted:  decision.Halt,
			Reason:  decision.Reason,
			Delta:   dp.Delta,
			TauDays: dp.TauDays,
		},
		Results: p.formatResults(results),
	}
	p.monitor.Finish(resp)
	return resp, nil
}

// scoreStage computes centrality and decay over one stage's candidate set,
// fuses all four parts, and returns the candidates ranked by fused score.
func (p *Pipeline) scoreStage(candidates []core.Candidate, dp decay.Params, weights map[string]float64, now time.Time, k int) ([]core.ScoredResult, error) {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		text, err := p.store.GetText(c.Doc.ID)
		if err != nil {
			return nil, fmt.Errorf("loading candidate %s: %w", c.Doc.ID, err)
		}
		texts[i] = text
	}

	g := graph.New(texts)
	var centrality []float64
	if p.pageRank {
		centrality = g.PageRank(graph.DefaultThreshold, graph.DefaultDamping)
	} else {
		centrality = g.DegreeCentrality(graph.DefaultThreshold)
	}
	p.monitor.AfterCentrality(k, centrality)

	results := make([]core.ScoredResult, len(candidates))
	for i, c := range candidates {
		// Retrieval returns documents by reference only; carry the text
		// through for the halting policy and snippets.
		c.Doc.Text = texts[i]
		if _, err := core.ParseTimestamp(c.Doc.Timestamp); err != nil {
			p.logger.Warn("malformed timestamp, treating document as current",
				"doc_id", c.Doc.ID,
				"timestamp", c.Doc.Timestamp)
		}
		parts := map[string]float64{
			core.PartLexical:    c.Lexical,
			core.PartSemantic:   c.Semantic,
			core.PartCentrality: centrality[i],
			core.PartDecay:      p.model.Value(c.Doc.Timestamp, now, dp.TauDays),
		}
		results[i] = core.ScoredResult{
			Doc:   c.Doc,
			Parts: parts,
			Score: fusion.Combine(parts, weights),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// decide feeds the leading fused scores and texts to the halting policy.
func (p *Pipeline) decide(results []core.ScoredResult) budget.Decision {
	n := min(decisionWindow, len(results))
	scores := make([]float64, n)
	texts := make([]string, n)
	for i := range n {
		scores[i] = results[i].Score
		texts[i] = results[i].Doc.Text
	}
	return p.policy.Decide(scores, texts)
}

func (p *Pipeline) formatResults(results []core.ScoredResult) []Result {
	n := min(maxResults, len(results))
	out := make([]Result, n)
	for i := range n {
		r := results[i]
		out[i] = Result{
			ID:        r.Doc.ID,
			Timestamp: r.Doc.Timestamp,
			Score:     r.Score,
			Parts:     r.Parts,
			Snippet:   snippet(r.Doc.Text),
		}
	}
	return out
}

// snippet truncates text to snippetRunes runes without splitting a rune.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetRunes {
		return text
	}
	return string(runes[:snippetRunes])
}
