// Copyright 2026 Lindenhart Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package pipeline drives the K-stage escalation loop over the retrieval
// components.
//
// Each stage runs the same sequence over a growing candidate budget:
//   - Hybrid retrieval of the top-K candidates
//   - Evidence-graph centrality over the candidate texts
//   - Query-adaptive time decay per candidate
//   - Linear fusion of the four partial signals
//
// After each stage the halting policy inspects the leading fused scores and
// their textual agreement; the loop stops at the first stage whose ranking is
// both clearly separated and corroborated, or returns the last stage's
// ranking once the configured budgets are exhausted.
package pipeline
