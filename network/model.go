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


package network

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// Architecture fixes the layer sizes of a model.
type Architecture struct {
	SequenceLength int
	InputDim       int
	ProfileDim     int
	Hidden         int
	Classes        int
}

// Validate checks that every size is usable. ProfileDim may be zero.
func (a Architecture) Validate() error {
	if a.SequenceLength <= 0 || a.InputDim <= 0 || a.Hidden <= 0 || a.Classes <= 0 || a.ProfileDim < 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidArchitecture, a)
	}
	return nil
}

// parameter indices
const (
	pWx = iota // Hidden x InputDim
	pWh        // Hidden x Hidden
	pBh        // Hidden
	pWo        // Classes x (Hidden + ProfileDim)
	pBo        // Classes
	numParams
)

// Adam holds optimizer hyperparameters.
type Adam struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
}

// DefaultAdam returns the customary Adam settings.
func DefaultAdam() Adam {
	return Adam{LearningRate: 0.001, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-7}
}

// Model is a trainable classifier.
type Model struct {
	arch   Architecture
	adam   Adam
	params [][]float64
	m      [][]float64
	v      [][]float64
	step   int
}

// Option configures a new Model.
type Option func(*options)

type options struct {
	adam Adam
	seed uint64
}

// WithAdam sets the optimizer hyperparameters.
func WithAdam(adam Adam) Option {
	return func(o *options) {
		o.adam = adam
	}
}

// WithSeed sets the weight initialization seed.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// New creates a model with Glorot uniform weights and zero biases.
func New(arch Architecture, opts ...Option) (*Model, error) {
	if err := arch.Validate(); err != nil {
		return nil, err
	}
	o := options{adam: DefaultAdam(), seed: 1}
	for _, opt := range opts {
		opt(&o)
	}

	rng := rand.New(rand.NewPCG(o.seed, o.seed+1))
	glorot := func(rows, cols int) []float64 {
		limit := math.Sqrt(6 / float64(rows+cols))
		w := make([]float64, rows*cols)
		for i := range w {
			w[i] = (rng.Float64()*2 - 1) * limit
		}
		return w
	}

	m := &Model{arch: arch, adam: o.adam}
	m.params = make([][]float64, numParams)
	m.params[pWx] = glorot(arch.Hidden, arch.InputDim)
	m.params[pWh] = glorot(arch.Hidden, arch.Hidden)
	m.params[pBh] = make([]float64, arch.Hidden)
	m.params[pWo] = glorot(arch.Classes, arch.Hidden+arch.ProfileDim)
	m.params[pBo] = make([]float64, arch.Classes)
	m.m = zerosLike(m.params)
	m.v = zerosLike(m.params)
	return m, nil
}

func zerosLike(params [][]float64) [][]float64 {
	out := make([][]float64, len(params))
	for i, p := range params {
		out[i] = make([]float64, len(p))
	}
	return out
}

// Architecture returns the model's layer sizes.
func (m *Model) Architecture() Architecture {
	return m.arch
}

// Steps returns the number of optimizer updates applied so far.
func (m *Model) Steps() int {
	return m.step
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	c := *m
	c.params = cloneAll(m.params)
	c.m = cloneAll(m.m)
	c.v = cloneAll(m.v)
	return &c
}

func cloneAll(in [][]float64) [][]float64 {
	out := make([][]float64, len(in))
	for i, p := range in {
		out[i] = slices.Clone(p)
	}
	return out
}

func general(rows, cols int, data []float64) blas64.General {
	return blas64.General{Rows: rows, Cols: cols, Stride: cols, Data: data}
}

func vector(data []float64) blas64.Vector {
	return blas64.Vector{N: len(data), Inc: 1, Data: data}
}

// forward runs one example and returns every hidden state (index 0 is the
// zero initial state) and the output probabilities.
func (m *Model) forward(seq [][]float32, profile []float32) (hs [][]float64, probs []float64) {
	a := m.arch
	wx := general(a.Hidden, a.InputDim, m.params[pWx])
	wh := general(a.Hidden, a.Hidden, m.params[pWh])

	hs = make([][]float64, len(seq)+1)
	hs[0] = make([]float64, a.Hidden)
	x := make([]float64, a.InputDim)
	for t, step := range seq {
		for i, f := range step {
			x[i] = float64(f)
		}
		h := slices.Clone(m.params[pBh])
		blas64.Gemv(blas.NoTrans, 1, wx, vector(x), 1, vector(h))
		blas64.Gemv(blas.NoTrans, 1, wh, vector(hs[t]), 1, vector(h))
		for i := range h {
			h[i] = math.Tanh(h[i])
		}
		hs[t+1] = h
	}

	features := m.outputInput(hs[len(seq)], profile)
	logits := slices.Clone(m.params[pBo])
	blas64.Gemv(blas.NoTrans, 1, general(a.Classes, a.Hidden+a.ProfileDim, m.params[pWo]), vector(features), 1, vector(logits))
	return hs, softmax(logits)
}

func (m *Model) outputInput(h []float64, profile []float32) []float64 {
	out := make([]float64, m.arch.Hidden+m.arch.ProfileDim)
	copy(out, h)
	for i, f := range profile {
		out[m.arch.Hidden+i] = float64(f)
	}
	return out
}

func softmax(logits []float64) []float64 {
	maxv := slices.Max(logits)
	sum := 0.0
	for i, l := range logits {
		logits[i] = math.Exp(l - maxv)
		sum += logits[i]
	}
	for i := range logits {
		logits[i] /= sum
	}
	return logits
}

// Predict returns class probabilities for one example.
func (m *Model) Predict(seq [][]float32, profile []float32) ([]float64, error) {
	if err := m.checkExample(seq, profile); err != nil {
		return nil, err
	}
	_, probs := m.forward(seq, profile)
	return probs, nil
}

func (m *Model) checkExample(seq [][]float32, profile []float32) error {
	if len(seq) != m.arch.SequenceLength {
		return fmt.Errorf("%w: %d timesteps, want %d", ErrInputMismatch, len(seq), m.arch.SequenceLength)
	}
	for _, step := range seq {
		if len(step) != m.arch.InputDim {
			return fmt.Errorf("%w: input width %d, want %d", ErrInputMismatch, len(step), m.arch.InputDim)
		}
	}
	if len(profile) != m.arch.ProfileDim {
		return fmt.Errorf("%w: profile width %d, want %d", ErrInputMismatch, len(profile), m.arch.ProfileDim)
	}
	return nil
}

// backward accumulates the gradient of the cross entropy loss for one
// example into grads.
func (m *Model) backward(seq [][]float32, profile []float32, label int, hs [][]float64, probs []float64, grads [][]float64) {
	a := m.arch
	outWidth := a.Hidden + a.ProfileDim

	dz := slices.Clone(probs)
	dz[label]--

	features := m.outputInput(hs[len(seq)], profile)
	blas64.Ger(1, vector(dz), vector(features), general(a.Classes, outWidth, grads[pWo]))
	blas64.Axpy(1, vector(dz), vector(grads[pBo]))

	dfeat := make([]float64, outWidth)
	blas64.Gemv(blas.Trans, 1, general(a.Classes, outWidth, m.params[pWo]), vector(dz), 0, vector(dfeat))
	dh := dfeat[:a.Hidden]

	wh := general(a.Hidden, a.Hidden, m.params[pWh])
	x := make([]float64, a.InputDim)
	da := make([]float64, a.Hidden)
	next := make([]float64, a.Hidden)
	for t := len(seq); t >= 1; t-- {
		h := hs[t]
		for i := range da {
			da[i] = dh[i] * (1 - h[i]*h[i])
		}
		for i, f := range seq[t-1] {
			x[i] = float64(f)
		}
		blas64.Ger(1, vector(da), vector(x), general(a.Hidden, a.InputDim, grads[pWx]))
		blas64.Ger(1, vector(da), vector(hs[t-1]), general(a.Hidden, a.Hidden, grads[pWh]))
		blas64.Axpy(1, vector(da), vector(grads[pBh]))
		blas64.Gemv(blas.Trans, 1, wh, vector(da), 0, vector(next))
		dh, next = next, dh
	}
}

// apply performs one Adam update with the averaged gradient.
func (m *Model) apply(grads [][]float64, scale float64) {
	m.step++
	ad := m.adam
	c1 := 1 - math.Pow(ad.Beta1, float64(m.step))
	c2 := 1 - math.Pow(ad.Beta2, float64(m.step))
	for p := range m.params {
		w, mp, vp, g := m.params[p], m.m[p], m.v[p], grads[p]
		for i := range w {
			gi := g[i] * scale
			mp[i] = ad.Beta1*mp[i] + (1-ad.Beta1)*gi
			vp[i] = ad.Beta2*vp[i] + (1-ad.Beta2)*gi*gi
			w[i] -= ad.LearningRate * (mp[i] / c1) / (math.Sqrt(vp[i]/c2) + ad.Epsilon)
		}
	}
}

// inTopK reports whether label is among the k most probable classes.
func inTopK(probs []float64, label, k int) bool {
	if k >= len(probs) {
		return true
	}
	higher := 0
	for i, p := range probs {
		if i != label && p > probs[label] {
			higher++
		}
	}
	return higher < k
}
