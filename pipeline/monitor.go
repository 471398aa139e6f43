package pipeline

import (
	"github.com/lindenhart/freshet/budget"
	"github.com/lindenhart/freshet/core"
)

// StageMonitor provides hooks to observe the escalation loop.
// Implement this interface to track intermediate stages of a query.
type StageMonitor interface {
	StageStart(k int)
	AfterRetrieval(k int, candidates []core.Candidate)
	AfterCentrality(k int, centrality []float64)
	AfterScoring(k int, results []core.ScoredResult)
	StageDecision(k int, decision budget.Decision)
	Finish(resp *Response)
}

// noopMonitor is a no-op implementation of StageMonitor
type noopMonitor struct{}

var _ StageMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) StageStart(_ int)                          {}
func (n *noopMonitor) AfterRetrieval(_ int, _ []core.Candidate)  {}
func (n *noopMonitor) AfterCentrality(_ int, _ []float64)        {}
func (n *noopMonitor) AfterScoring(_ int, _ []core.ScoredResult) {}
func (n *noopMonitor) StageDecision(_ int, _ budget.Decision)    {}
func (n *noopMonitor) Finish(_ *Response)                        {}
