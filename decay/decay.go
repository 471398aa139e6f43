// Package decay implements the query-adaptive time-decay model. A fixed
// keyword heuristic classifies each query's recency need, which maps to a
// decay weight and an exponential half-life scale; each document then gets a
// recency multiplier from its timestamp age.
package decay

import (
	"math"
	"regexp"
	"time"

	"github.com/lindenhart/freshet/core"
)

// Default decay parameters. baseDelta weighs the decay term against the
// retrieval-quality terms in fusion; the tau bounds are in days. With
// tau=90, e^(-90/90) ≈ 0.37 at three months; with tau=730, e^(-365/730)
// ≈ 0.61 at one year.
const (
	DefaultBaseDelta = 2.5
	DefaultMinTau    = 90.0
	DefaultMaxTau    = 730.0

	lowNeed  = 0.3
	highNeed = 1.0
)

// recencyRE matches queries that demand fresh information. A deterministic
// keyword heuristic, not a learned model.
var recencyRE = regexp.MustCompile(`(?i)current|latest|today|now|this year|who is|new|recent|as of|price|schedule|deadline|update`)

// Params are the per-query decay parameters: the fusion weight of the decay
// term and the half-life scale in days. TauDays is always positive.
type Params struct {
	Delta   float64
	TauDays float64
}

// Model derives decay parameters from queries and computes per-document
// recency multipliers. Immutable after construction.
type Model struct {
	baseDelta float64
	minTau    float64
	maxTau    float64
}

// New creates a Model. Non-positive arguments fall back to the defaults.
func New(baseDelta, minTau, maxTau float64) *Model {
	if baseDelta <= 0 {
		baseDelta = DefaultBaseDelta
	}
	if minTau <= 0 {
		minTau = DefaultMinTau
	}
	if maxTau <= 0 {
		maxTau = DefaultMaxTau
	}
	return &Model{baseDelta: baseDelta, minTau: minTau, maxTau: maxTau}
}

// RecencyNeed classifies the query's demand for fresh information.
// Returns 1.0 when a recency keyword matches, 0.3 otherwise.
func (m *Model) RecencyNeed(query string) float64 {
	if recencyRE.MatchString(query) {
		return highNeed
	}
	return lowNeed
}

// ParamsForQuery maps the query's recency need onto decay parameters. High
// need yields a small tau (fast decay) and a large delta (decay weighted
// heavily in fusion); low need the reverse.
func (m *Model) ParamsForQuery(query string) Params {
	need := m.RecencyNeed(query)
	return Params{
		Delta:   m.baseDelta * need,
		TauDays: m.maxTau - (m.maxTau-m.minTau)*need,
	}
}

// Value computes the exponential recency multiplier exp(-age/tau) for a
// document timestamp at the given reference time. A malformed timestamp is
// treated as "now" (age 0, decay 1.0) so a single bad record degrades
// neutrally instead of failing the whole ranking. Strictly decreasing in age
// for fixed tau; exactly 1.0 at age 0.
func (m *Model) Value(timestamp string, now time.Time, tauDays float64) float64 {
	ts, err := core.ParseTimestamp(timestamp)
	if err != nil {
		ts = now
	}
	ageDays := now.Sub(ts).Seconds() / 86400.0
	return math.Exp(-ageDays / math.Max(tauDays, 1e-3))
}
