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
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CosineDistance returns 1 - cos(a, b). A zero vector is at distance 1 from
// everything.
func CosineDistance(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - floats.Dot(a, b)/(na*nb)
}

// SilhouetteSamples returns the cosine silhouette coefficient of every
// point. Points in singleton clusters score 0.
func SilhouetteSamples(points [][]float64, labels []int) ([]float64, error) {
	n := len(points)
	if len(labels) != n {
		return nil, fmt.Errorf("%w: %d labels for %d points", ErrInvalidLabelCount, len(labels), n)
	}
	clusters := make(map[int]int)
	for _, l := range labels {
		clusters[l]++
	}
	if len(clusters) < 2 || len(clusters) > n-1 {
		return nil, fmt.Errorf("%w: %d labels for %d samples", ErrInvalidLabelCount, len(clusters), n)
	}

	scores := make([]float64, n)
	sums := make(map[int]float64, len(clusters))
	for i := range n {
		clear(sums)
		for j := range n {
			if i != j {
				sums[labels[j]] += CosineDistance(points[i], points[j])
			}
		}
		own := clusters[labels[i]]
		if own == 1 {
			continue
		}
		a := sums[labels[i]] / float64(own-1)
		b := math.Inf(1)
		for l, count := range clusters {
			if l != labels[i] {
				b = math.Min(b, sums[l]/float64(count))
			}
		}
		if m := math.Max(a, b); m > 0 {
			scores[i] = (b - a) / m
		}
	}
	return scores, nil
}

// Silhouette returns the mean cosine silhouette coefficient.
func Silhouette(points [][]float64, labels []int) (float64, error) {
	scores, err := SilhouetteSamples(points, labels)
	if err != nil {
		return 0, err
	}
	return stat.Mean(scores, nil), nil
}
