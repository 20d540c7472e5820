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
	"context"
	"fmt"
	"math"

	"github.com/poiesic/medseq/generator"
)

// BatchSource yields training batches by index.
type BatchSource interface {
	Len() int
	Batch(ctx context.Context, i int) (*generator.Batch, error)
}

// Metrics summarizes predictions over a set of examples.
type Metrics struct {
	Loss     float64
	Accuracy float64
	Top10    float64
	Top30    float64
	Examples int
}

type accumulator struct {
	loss                  float64
	correct, top10, top30 int
	n                     int
}

func (a *accumulator) add(probs []float64, label int) {
	a.loss -= math.Log(math.Max(probs[label], 1e-12))
	if inTopK(probs, label, 1) {
		a.correct++
	}
	if inTopK(probs, label, 10) {
		a.top10++
	}
	if inTopK(probs, label, 30) {
		a.top30++
	}
	a.n++
}

func (a *accumulator) metrics() Metrics {
	if a.n == 0 {
		return Metrics{}
	}
	n := float64(a.n)
	return Metrics{
		Loss:     a.loss / n,
		Accuracy: float64(a.correct) / n,
		Top10:    float64(a.top10) / n,
		Top30:    float64(a.top30) / n,
		Examples: a.n,
	}
}

// Callback is notified after every completed epoch.
type Callback interface {
	OnEpochEnd(ctx context.Context, epoch int, m *Model, metrics Metrics) error
}

// CallbackFunc adapts a function to Callback.
type CallbackFunc func(ctx context.Context, epoch int, m *Model, metrics Metrics) error

// OnEpochEnd calls f.
func (f CallbackFunc) OnEpochEnd(ctx context.Context, epoch int, m *Model, metrics Metrics) error {
	return f(ctx, epoch, m, metrics)
}

// Progress receives training progress for display.
type Progress interface {
	EpochBegin(epoch, epochs, batches int)
	BatchEnd(batch int, running Metrics)
	EpochEnd(epoch int, metrics Metrics)
}

// FitOptions controls a Fit call.
type FitOptions struct {
	// InitialEpoch is the index of the first epoch to train.
	InitialEpoch int
	// Epochs is the index one past the last epoch to train.
	Epochs    int
	Callbacks []Callback
	Progress  Progress
}

// History records the epochs trained by a Fit call.
type History struct {
	Epochs  []int
	Metrics []Metrics
}

// Fit trains epochs [InitialEpoch, Epochs). When InitialEpoch >= Epochs no
// epoch runs and the model is left untouched. A callback error stops
// training after the epoch that produced it.
func (m *Model) Fit(ctx context.Context, src BatchSource, opts FitOptions) (*History, error) {
	if opts.InitialEpoch < 0 {
		return nil, fmt.Errorf("%w: initial epoch %d", ErrInvalidEpochRange, opts.InitialEpoch)
	}
	history := &History{}
	for epoch := opts.InitialEpoch; epoch < opts.Epochs; epoch++ {
		if opts.Progress != nil {
			opts.Progress.EpochBegin(epoch, opts.Epochs, src.Len())
		}

		var acc accumulator
		for i := 0; i < src.Len(); i++ {
			select {
			case <-ctx.Done():
				return history, ctx.Err()
			default:
			}
			batch, err := src.Batch(ctx, i)
			if err != nil {
				return history, fmt.Errorf("epoch %d batch %d: %w", epoch, i, err)
			}
			if err := m.trainBatch(batch, &acc); err != nil {
				return history, fmt.Errorf("epoch %d batch %d: %w", epoch, i, err)
			}
			if opts.Progress != nil {
				opts.Progress.BatchEnd(i, acc.metrics())
			}
		}

		metrics := acc.metrics()
		history.Epochs = append(history.Epochs, epoch)
		history.Metrics = append(history.Metrics, metrics)
		if opts.Progress != nil {
			opts.Progress.EpochEnd(epoch, metrics)
		}
		for _, cb := range opts.Callbacks {
			if err := cb.OnEpochEnd(ctx, epoch, m, metrics); err != nil {
				return history, fmt.Errorf("epoch %d callback: %w", epoch, err)
			}
		}
	}
	return history, nil
}

// TrainBatch applies one optimizer step on batch and returns the metrics of
// the predictions made before the update.
func (m *Model) TrainBatch(batch *generator.Batch) (Metrics, error) {
	var acc accumulator
	if err := m.trainBatch(batch, &acc); err != nil {
		return Metrics{}, err
	}
	return acc.metrics(), nil
}

func (m *Model) trainBatch(batch *generator.Batch, acc *accumulator) error {
	if batch.Size() == 0 {
		return nil
	}
	if err := m.checkBatch(batch); err != nil {
		return err
	}
	grads := zerosLike(m.params)
	for j := range batch.Labels {
		hs, probs := m.forward(batch.Sequences[j], batch.Profiles[j])
		acc.add(probs, batch.Labels[j])
		m.backward(batch.Sequences[j], batch.Profiles[j], batch.Labels[j], hs, probs, grads)
	}
	m.apply(grads, 1/float64(batch.Size()))
	return nil
}

func (m *Model) checkBatch(batch *generator.Batch) error {
	if len(batch.Sequences) != batch.Size() || len(batch.Profiles) != batch.Size() {
		return fmt.Errorf("%w: ragged batch", ErrInputMismatch)
	}
	for j, label := range batch.Labels {
		if label < 0 || label >= m.arch.Classes {
			return fmt.Errorf("%w: label %d not in [0, %d)", ErrInputMismatch, label, m.arch.Classes)
		}
		if err := m.checkExample(batch.Sequences[j], batch.Profiles[j]); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate computes metrics over every batch of src without training.
func (m *Model) Evaluate(ctx context.Context, src BatchSource) (Metrics, error) {
	var acc accumulator
	for i := 0; i < src.Len(); i++ {
		batch, err := src.Batch(ctx, i)
		if err != nil {
			return Metrics{}, err
		}
		if err := m.checkBatch(batch); err != nil {
			return Metrics{}, err
		}
		for j, label := range batch.Labels {
			_, probs := m.forward(batch.Sequences[j], batch.Profiles[j])
			acc.add(probs, label)
		}
	}
	return acc.metrics(), nil
}
