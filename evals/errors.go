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


package evals

import "errors"

var (
	// ErrPipelineRequired is returned when an evaluator is built without a pipeline.
	ErrPipelineRequired = errors.New("pipeline required")

	// ErrNoQuestions indicates an empty question set.
	ErrNoQuestions = errors.New("no questions to evaluate")

	// ErrMalformedQuestion indicates a question record missing required fields.
	ErrMalformedQuestion = errors.New("malformed question record")
)
