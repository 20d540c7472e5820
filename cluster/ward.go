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


package cluster

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Merge joins the clusters represented by points A and B at Height.
type Merge struct {
	A, B   int
	Height float64
}

// Agglomerative is Ward linkage hierarchical clustering cut at NClusters.
type Agglomerative struct {
	NClusters int
}

// FitPredict clusters points and returns one label in [0, NClusters) per
// point. Labels are numbered in order of each cluster's first point.
func (a Agglomerative) FitPredict(points [][]float64) ([]int, error) {
	n := len(points)
	if a.NClusters < 1 || a.NClusters > n {
		return nil, fmt.Errorf("%w: %d clusters for %d points", ErrInvalidClusterCount, a.NClusters, n)
	}
	merges, err := WardTree(points)
	if err != nil {
		return nil, err
	}
	return Cut(n, merges, a.NClusters), nil
}

// WardTree builds the full Ward dendrogram. Merges are returned sorted by
// height.
func WardTree(points [][]float64) ([]Merge, error) {
	n := len(points)
	if n == 0 {
		return nil, nil
	}
	for _, p := range points {
		if len(p) != len(points[0]) {
			return nil, ErrRaggedInput
		}
	}

	// dist holds squared Ward distances; for singletons this is the squared
	// euclidean distance.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range i {
			d := floats.Distance(points[i], points[j], 2)
			dist[i][j] = d * d
			dist[j][i] = d * d
		}
	}

	size := make([]int, n)
	active := make([]bool, n)
	for i := range n {
		size[i] = 1
		active[i] = true
	}

	merges := make([]Merge, 0, n-1)
	chain := make([]int, 0, n)
	next := 0
	for len(merges) < n-1 {
		if len(chain) == 0 {
			for !active[next] {
				next++
			}
			chain = append(chain, next)
		}
		for {
			top := chain[len(chain)-1]
			best, bestD := -1, math.Inf(1)
			if len(chain) >= 2 {
				best = chain[len(chain)-2]
				bestD = dist[top][best]
			}
			for k := range n {
				if k == top || !active[k] {
					continue
				}
				if dist[top][k] < bestD {
					best, bestD = k, dist[top][k]
				}
			}
			if len(chain) >= 2 && best == chain[len(chain)-2] {
				break
			}
			chain = append(chain, best)
		}

		x, y := chain[len(chain)-1], chain[len(chain)-2]
		chain = chain[:len(chain)-2]
		if y < x {
			x, y = y, x
		}
		dxy := dist[x][y]
		merges = append(merges, Merge{A: x, B: y, Height: math.Sqrt(dxy)})

		// Lance-Williams update for Ward linkage; x represents the union.
		nx, ny := float64(size[x]), float64(size[y])
		for k := range n {
			if !active[k] || k == x || k == y {
				continue
			}
			nk := float64(size[k])
			d := ((nx+nk)*dist[x][k] + (ny+nk)*dist[y][k] - nk*dxy) / (nx + ny + nk)
			dist[x][k] = d
			dist[k][x] = d
		}
		size[x] += size[y]
		active[y] = false
	}

	slices.SortStableFunc(merges, func(a, b Merge) int {
		return cmp.Compare(a.Height, b.Height)
	})
	return merges, nil
}

// Cut applies the lowest n-k merges and labels the resulting k clusters.
func Cut(n int, merges []Merge, k int) []int {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for _, m := range merges[:n-k] {
		ra, rb := find(m.A), find(m.B)
		if ra != rb {
			parent[rb] = ra
		}
	}

	labels := make([]int, n)
	ids := make(map[int]int)
	for i := range labels {
		root := find(i)
		id, ok := ids[root]
		if !ok {
			id = len(ids)
			ids[root] = id
		}
		labels[i] = id
	}
	return labels
}
