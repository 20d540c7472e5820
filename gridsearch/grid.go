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


package gridsearch

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Params is one point of a grid.
type Params map[string]float64

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Int returns the named parameter truncated to an int.
func (p Params) Int(key string) int {
	return int(p[key])
}

// String renders the parameters as "k=v" pairs in key order.
func (p Params) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range p.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(p[k], 'g', -1, 64))
	}
	b.WriteByte('}')
	return b.String()
}

// Grid maps each parameter name to the values it takes.
type Grid map[string][]float64

// Keys returns the parameter names in sorted order.
func (g Grid) Keys() []string {
	return slices.Sorted(maps.Keys(g))
}

// Size is the number of candidates the grid expands to.
func (g Grid) Size() int {
	if len(g) == 0 {
		return 0
	}
	n := 1
	for _, values := range g {
		n *= len(values)
	}
	return n
}

// Candidates expands the grid into its cartesian product. Keys are taken in
// sorted order and the last key varies fastest, so the order is stable
// across runs.
func (g Grid) Candidates() ([]Params, error) {
	if g.Size() == 0 {
		return nil, ErrEmptyGrid
	}
	keys := g.Keys()
	out := make([]Params, 0, g.Size())
	idx := make([]int, len(keys))
	for {
		p := make(Params, len(keys))
		for i, k := range keys {
			p[k] = g[k][idx[i]]
		}
		out = append(out, p)

		i := len(keys) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(g[keys[i]]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return out, nil
		}
	}
}

// Fold is one train/test split, expressed as indices into the data.
type Fold struct {
	Train []int
	Test  []int
}

// KFold splits n samples into k contiguous folds without shuffling. The
// first n%k folds receive one extra sample.
func KFold(n, k int) ([]Fold, error) {
	if k < 2 {
		return nil, ErrInvalidFolds
	}
	if n < k {
		return nil, fmt.Errorf("%w: %d samples, %d folds", ErrTooFewSamples, n, k)
	}
	folds := make([]Fold, k)
	start := 0
	for i := range k {
		size := n / k
		if i < n%k {
			size++
		}
		end := start + size
		f := Fold{Test: make([]int, 0, size), Train: make([]int, 0, n-size)}
		for j := range n {
			if j >= start && j < end {
				f.Test = append(f.Test, j)
			} else {
				f.Train = append(f.Train, j)
			}
		}
		folds[i] = f
		start = end
	}
	return folds, nil
}

func pick[T any](data []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = data[j]
	}
	return out
}
