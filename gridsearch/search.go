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
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"
)

// Evaluator fits an estimator configured by params on train and returns its
// score on test. Higher scores are better.
type Evaluator[T any] func(ctx context.Context, params Params, train, test []T) (float64, error)

type options struct {
	poolSize   int
	folds      int
	errorScore float64
	logger     *slog.Logger
}

// Option configures a search.
type Option func(*options) error

// WithPoolSize sets the number of concurrent evaluations.
// Default is runtime.NumCPU() - 1, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *options) error {
		if size < 1 {
			size = 1
		}
		o.poolSize = size
		return nil
	}
}

// WithFolds sets the number of cross-validation folds. Default is 3.
func WithFolds(k int) Option {
	return func(o *options) error {
		if k < 2 {
			return ErrInvalidFolds
		}
		o.folds = k
		return nil
	}
}

// WithErrorScore sets the score recorded for a fold whose evaluation
// failed. Default is 0.
func WithErrorScore(score float64) Option {
	return func(o *options) error {
		o.errorScore = score
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// Search evaluates every candidate of grid on every fold of data and ranks
// the candidates. Evaluation errors are recorded on the candidate; Search
// itself fails only on invalid input, cancellation, or when no candidate
// completed cleanly.
func Search[T any](ctx context.Context, data []T, grid Grid, evaluate Evaluator[T], opts ...Option) (*Results, error) {
	if evaluate == nil {
		return nil, ErrEvaluatorRequired
	}

	o := &options{
		poolSize: max(runtime.NumCPU()-1, 1),
		folds:    3,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	logger := o.logger.With("component", "gridsearch")

	candidates, err := grid.Candidates()
	if err != nil {
		return nil, err
	}
	folds, err := KFold(len(data), o.folds)
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(o.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	logger.Info("fitting folds",
		"folds", len(folds),
		"candidates", len(candidates),
		"fits", len(folds)*len(candidates))

	scores := make([][]float64, len(candidates))
	errs := make([][]error, len(candidates))
	for c := range candidates {
		scores[c] = make([]float64, len(folds))
		errs[c] = make([]error, len(folds))
	}

	var wg sync.WaitGroup
	for c, params := range candidates {
		for f, fold := range folds {
			job := func() {
				defer wg.Done()
				score, err := evaluateFold(ctx, evaluate, params, pick(data, fold.Train), pick(data, fold.Test))
				if err != nil {
					logger.Debug("fold failed", "params", params.String(), "fold", f, "error", err)
					scores[c][f] = o.errorScore
					errs[c][f] = fmt.Errorf("fold %d: %w", f, err)
					return
				}
				scores[c][f] = score
			}
			wg.Add(1)
			if err := pool.Submit(job); err != nil {
				wg.Done()
				wg.Wait()
				return nil, err
			}
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := &Results{Folds: len(folds), Candidates: make([]Candidate, len(candidates))}
	for c, params := range candidates {
		var merr *multierror.Error
		for _, e := range errs[c] {
			if e != nil {
				merr = multierror.Append(merr, e)
			}
		}
		results.Candidates[c] = newCandidate(params, scores[c], merr.ErrorOrNil())
	}
	if err := results.rank(); err != nil {
		return results, err
	}

	best := results.Best()
	logger.Info("grid search complete", "best_params", best.Params.String(), "best_score", best.Mean)
	return results, nil
}

func evaluateFold[T any](ctx context.Context, evaluate Evaluator[T], params Params, train, test []T) (score float64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrEvaluationPanic, r)
		}
	}()
	return evaluate(ctx, params, train, test)
}
