// Package fusion holds the single auditable formula that combines the four
// partial relevance signals into one scalar. No normalization happens here;
// every signal is normalized upstream by its producer.
package fusion

import "github.com/lindenhart/freshet/core"

// partNames is the closed set of signals that participate in fusion.
var partNames = []string{
	core.PartLexical,
	core.PartSemantic,
	core.PartCentrality,
	core.PartDecay,
}

// Combine returns the weighted sum of the four named parts. A part or weight
// missing from its map contributes zero.
func Combine(parts, weights map[string]float64) float64 {
	sum := 0.0
	for _, name := range partNames {
		sum += parts[name] * weights[name]
	}
	return sum
}
