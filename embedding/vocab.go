// Copyright 2025 Poiesic Systems
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


package embedding

import (
	"cmp"
	"math"
	"slices"
)

// vocab is a frequency sorted token table.
type vocab struct {
	words  []string
	counts []int
	index  map[string]int
	total  int

	// hierarchical softmax paths
	codes  [][]uint8
	points [][]int
}

// buildVocab counts tokens and keeps those seen at least minCount times,
// most frequent first with ties broken by token.
func buildVocab(sentences [][]string, minCount int) *vocab {
	raw := make(map[string]int)
	for _, s := range sentences {
		for _, tok := range s {
			raw[tok]++
		}
	}

	v := &vocab{index: make(map[string]int)}
	for tok, n := range raw {
		if n >= minCount {
			v.words = append(v.words, tok)
		}
	}
	slices.SortFunc(v.words, func(a, b string) int {
		if c := cmp.Compare(raw[b], raw[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	v.counts = make([]int, len(v.words))
	for i, w := range v.words {
		v.counts[i] = raw[w]
		v.index[w] = i
		v.total += raw[w]
	}
	return v
}

func (v *vocab) size() int {
	return len(v.words)
}

// keepProbs returns the probability of keeping each token under frequent
// token downsampling.
func (v *vocab) keepProbs(sample float64) []float64 {
	probs := make([]float64, v.size())
	threshold := sample * float64(v.total)
	for i, c := range v.counts {
		if sample <= 0 {
			probs[i] = 1
			continue
		}
		f := float64(c)
		p := (math.Sqrt(f/threshold) + 1) * threshold / f
		probs[i] = math.Min(p, 1)
	}
	return probs
}

// buildHuffman assigns each token a binary code and the inner node path that
// leads to it. Inner nodes are numbered 0..size-2.
func (v *vocab) buildHuffman() {
	n := v.size()
	v.codes = make([][]uint8, n)
	v.points = make([][]int, n)
	if n < 2 {
		// a single token still needs one inner node to train against
		for i := range n {
			v.codes[i] = []uint8{0}
			v.points[i] = []int{0}
		}
		return
	}

	count := make([]int, 2*n+1)
	binary := make([]uint8, 2*n+1)
	parent := make([]int, 2*n+1)
	copy(count, v.counts)
	for i := n; i < len(count); i++ {
		count[i] = math.MaxInt
	}

	// counts are sorted descending, so leaves are consumed from the end
	pos1, pos2 := n-1, n
	pick := func() int {
		if pos1 >= 0 && count[pos1] < count[pos2] {
			pos1--
			return pos1 + 1
		}
		pos2++
		return pos2 - 1
	}
	for a := 0; a < n-1; a++ {
		min1 := pick()
		min2 := pick()
		count[n+a] = count[min1] + count[min2]
		parent[min1] = n + a
		parent[min2] = n + a
		binary[min2] = 1
	}

	root := 2*n - 2
	for i := range n {
		var code []uint8
		var path []int
		for b := i; b != root; b = parent[b] {
			code = append(code, binary[b])
			path = append(path, parent[b]-n)
		}
		slices.Reverse(code)
		slices.Reverse(path)
		v.codes[i] = code
		v.points[i] = path
	}
}

// noiseTable holds the cumulative unigram^0.75 distribution.
type noiseTable struct {
	cum []float64
}

func newNoiseTable(counts []int) *noiseTable {
	cum := make([]float64, len(counts))
	total := 0.0
	for i, c := range counts {
		total += math.Pow(float64(c), 0.75)
		cum[i] = total
	}
	return &noiseTable{cum: cum}
}

// draw maps a uniform sample in [0, 1) to a token index.
func (t *noiseTable) draw(u float64) int {
	target := u * t.cum[len(t.cum)-1]
	i, _ := slices.BinarySearch(t.cum, target)
	if i >= len(t.cum) {
		i = len(t.cum) - 1
	}
	return i
}
