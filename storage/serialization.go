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


package storage

import (
	"github.com/lindenhart/freshet/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	size := ord.String.Size(doc.ID) + ord.String.Size(doc.Text) + ord.String.Size(doc.Timestamp)
	buf := make([]byte, size)
	n := ord.String.Marshal(doc.ID, buf)
	n += ord.String.Marshal(doc.Text, buf[n:])
	ord.String.Marshal(doc.Timestamp, buf[n:])
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	var doc core.Document
	id, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	doc.ID = id
	text, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	doc.Text = text
	n += m
	ts, _, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	doc.Timestamp = ts
	return &doc, nil
}

// MarshalLexicalStats serializes BM25 posting statistics to bytes.
func MarshalLexicalStats(stats *core.LexicalStats) []byte {
	size := varint.Int.Size(len(stats.Postings))
	for term, postings := range stats.Postings {
		size += ord.String.Size(term) + sizePostings(postings)
	}
	size += sizeIntSlice(stats.DocLens)
	size += varint.Float64.Size(stats.AvgDocLen)
	size += varint.Int.Size(stats.N)

	buf := make([]byte, size)
	n := varint.Int.Marshal(len(stats.Postings), buf)
	for term, postings := range stats.Postings {
		n += ord.String.Marshal(term, buf[n:])
		n += marshalPostings(postings, buf[n:])
	}
	n += marshalIntSlice(stats.DocLens, buf[n:])
	n += varint.Float64.Marshal(stats.AvgDocLen, buf[n:])
	varint.Int.Marshal(stats.N, buf[n:])
	return buf
}

// UnmarshalLexicalStats deserializes BM25 posting statistics from bytes.
func UnmarshalLexicalStats(data []byte) (*core.LexicalStats, error) {
	stats := &core.LexicalStats{}
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	stats.Postings = make(map[string][]core.Posting, count)
	for range count {
		term, m, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, err
		}
		n += m
		postings, m, err := unmarshalPostings(data[n:])
		if err != nil {
			return nil, err
		}
		n += m
		stats.Postings[term] = postings
	}
	lens, m, err := unmarshalIntSlice(data[n:])
	if err != nil {
		return nil, err
	}
	n += m
	stats.DocLens = lens
	avg, m, err := varint.Float64.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	n += m
	stats.AvgDocLen = avg
	total, _, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	stats.N = total
	return stats, nil
}

// MarshalProjection serializes the dense projection artifacts to bytes.
func MarshalProjection(proj *core.Projection) []byte {
	size := sizeStringSlice(proj.Vocab) +
		sizeFloatSlice(proj.Idf) +
		sizeMatrix(proj.Components) +
		sizeMatrix(proj.Docs) +
		varint.Int.Size(proj.Dim)

	buf := make([]byte, size)
	n := marshalStringSlice(proj.Vocab, buf)
	n += marshalFloatSlice(proj.Idf, buf[n:])
	n += marshalMatrix(proj.Components, buf[n:])
	n += marshalMatrix(proj.Docs, buf[n:])
	varint.Int.Marshal(proj.Dim, buf[n:])
	return buf
}

// UnmarshalProjection deserializes the dense projection artifacts from bytes.
func UnmarshalProjection(data []byte) (*core.Projection, error) {
	proj := &core.Projection{}
	vocab, n, err := unmarshalStringSlice(data)
	if err != nil {
		return nil, err
	}
	proj.Vocab = vocab
	idf, m, err := unmarshalFloatSlice(data[n:])
	if err != nil {
		return nil, err
	}
	n += m
	proj.Idf = idf
	components, m, err := unmarshalMatrix(data[n:])
	if err != nil {
		return nil, err
	}
	n += m
	proj.Components = components
	docs, m, err := unmarshalMatrix(data[n:])
	if err != nil {
		return nil, err
	}
	n += m
	proj.Docs = docs
	dim, _, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, err
	}
	proj.Dim = dim
	return proj, nil
}

// MarshalCorpusMeta serializes row-aligned corpus metadata to bytes.
func MarshalCorpusMeta(meta *core.CorpusMeta) []byte {
	size := sizeStringSlice(meta.IDs) + sizeStringSlice(meta.Timestamps)
	buf := make([]byte, size)
	n := marshalStringSlice(meta.IDs, buf)
	marshalStringSlice(meta.Timestamps, buf[n:])
	return buf
}

// UnmarshalCorpusMeta deserializes row-aligned corpus metadata from bytes.
func UnmarshalCorpusMeta(data []byte) (*core.CorpusMeta, error) {
	meta := &core.CorpusMeta{}
	ids, n, err := unmarshalStringSlice(data)
	if err != nil {
		return nil, err
	}
	meta.IDs = ids
	times, _, err := unmarshalStringSlice(data[n:])
	if err != nil {
		return nil, err
	}
	meta.Timestamps = times
	return meta, nil
}

// Slice helpers built on the mus-go primitive serializers. Lengths are
// varint-encoded, elements follow in order.

func sizePostings(postings []core.Posting) int {
	size := varint.Int.Size(len(postings))
	for _, p := range postings {
		size += varint.Int.Size(p.Row) + varint.Int.Size(p.Freq)
	}
	return size
}

func marshalPostings(postings []core.Posting, buf []byte) int {
	n := varint.Int.Marshal(len(postings), buf)
	for _, p := range postings {
		n += varint.Int.Marshal(p.Row, buf[n:])
		n += varint.Int.Marshal(p.Freq, buf[n:])
	}
	return n
}

func unmarshalPostings(data []byte) ([]core.Posting, int, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, n, err
	}
	postings := make([]core.Posting, count)
	for i := range count {
		row, m, err := varint.Int.Unmarshal(data[n:])
		if err != nil {
			return nil, n, err
		}
		n += m
		freq, m, err := varint.Int.Unmarshal(data[n:])
		if err != nil {
			return nil, n, err
		}
		n += m
		postings[i] = core.Posting{Row: row, Freq: freq}
	}
	return postings, n, nil
}

func sizeIntSlice(s []int) int {
	size := varint.Int.Size(len(s))
	for _, v := range s {
		size += varint.Int.Size(v)
	}
	return size
}

func marshalIntSlice(s []int, buf []byte) int {
	n := varint.Int.Marshal(len(s), buf)
	for _, v := range s {
		n += varint.Int.Marshal(v, buf[n:])
	}
	return n
}

func unmarshalIntSlice(data []byte) ([]int, int, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, n, err
	}
	s := make([]int, count)
	for i := range count {
		v, m, err := varint.Int.Unmarshal(data[n:])
		if err != nil {
			return nil, n, err
		}
		n += m
		s[i] = v
	}
	return s, n, nil
}

func sizeFloatSlice(s []float64) int {
	size := varint.Int.Size(len(s))
	for _, v := range s {
		size += varint.Float64.Size(v)
	}
	return size
}

func marshalFloatSlice(s []float64, buf []byte) int {
	n := varint.Int.Marshal(len(s), buf)
	for _, v := range s {
		n += varint.Float64.Marshal(v, buf[n:])
	}
	return n
}

func unmarshalFloatSlice(data []byte) ([]float64, int, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, n, err
	}
	s := make([]float64, count)
	for i := range count {
		v, m, err := varint.Float64.Unmarshal(data[n:])
		if err != nil {
			return nil, n, err
		}
		n += m
		s[i] = v
	}
	return s, n, nil
}

func sizeStringSlice(s []string) int {
	size := varint.Int.Size(len(s))
	for _, v := range s {
		size += ord.String.Size(v)
	}
	return size
}

func marshalStringSlice(s []string, buf []byte) int {
	n := varint.Int.Marshal(len(s), buf)
	for _, v := range s {
		n += ord.String.Marshal(v, buf[n:])
	}
	return n
}

func unmarshalStringSlice(data []byte) ([]string, int, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, n, err
	}
	s := make([]string, count)
	for i := range count {
		v, m, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, n, err
		}
		n += m
		s[i] = v
	}
	return s, n, nil
}

func sizeMatrix(m [][]float64) int {
	size := varint.Int.Size(len(m))
	for _, row := range m {
		size += sizeFloatSlice(row)
	}
	return size
}

func marshalMatrix(m [][]float64, buf []byte) int {
	n := varint.Int.Marshal(len(m), buf)
	for _, row := range m {
		n += marshalFloatSlice(row, buf[n:])
	}
	return n
}

func unmarshalMatrix(data []byte) ([][]float64, int, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, n, err
	}
	m := make([][]float64, count)
	for i := range count {
		row, k, err := unmarshalFloatSlice(data[n:])
		if err != nil {
			return nil, n, err
		}
		n += k
		m[i] = row
	}
	return m, n, nil
}
