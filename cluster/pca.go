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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCA projects points onto their first Components principal components.
// The sign of every component is fixed so its largest projection is
// positive, which makes the projection deterministic.
type PCA struct {
	Components int
}

// FitTransform centers points and returns their projection.
func (p PCA) FitTransform(points [][]float64) ([][]float64, error) {
	n := len(points)
	if n < 2 || p.Components < 1 {
		return nil, fmt.Errorf("%w: %d points for %d components", ErrInsufficientData, n, p.Components)
	}
	d := len(points[0])
	if d < p.Components {
		return nil, fmt.Errorf("%w: %d dimensions for %d components", ErrInsufficientData, d, p.Components)
	}

	x := mat.NewDense(n, d, nil)
	for i, row := range points {
		if len(row) != d {
			return nil, ErrRaggedInput
		}
		x.SetRow(i, row)
	}
	col := make([]float64, n)
	for j := range d {
		mat.Col(col, j, x)
		floats.AddConst(-stat.Mean(col, nil), col)
		x.SetCol(j, col)
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThinV); !ok {
		return nil, ErrDecompositionFailed
	}
	var v mat.Dense
	svd.VTo(&v)
	_, rank := v.Dims()
	k := min(p.Components, rank)

	var proj mat.Dense
	proj.Mul(x, v.Slice(0, d, 0, k))

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, p.Components)
		copy(out[i], proj.RawRowView(i))
	}
	for j := range k {
		mat.Col(col, j, &proj)
		if col[floats.MaxIdx(absAll(col))] < 0 {
			for i := range out {
				out[i][j] = -out[i][j]
			}
		}
	}
	return out, nil
}

func absAll(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if x < 0 {
			x = -x
		}
		out[i] = x
	}
	return out
}
