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


package corpus

import "errors"

var (
	// ErrNotFound is returned when a document id is unknown.
	ErrNotFound = errors.New("document not found")

	// ErrCorpusNotFound is returned when the corpus file does not exist.
	ErrCorpusNotFound = errors.New("corpus file not found")

	// ErrEmptyCorpus is returned when a corpus source contains no documents.
	ErrEmptyCorpus = errors.New("corpus is empty")
)
