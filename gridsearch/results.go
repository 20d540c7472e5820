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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Candidate is one evaluated grid point.
type Candidate struct {
	Params Params
	Scores []float64 // per fold, in fold order
	Mean   float64
	Std    float64 // population standard deviation of Scores
	Rank   int     // 1 is best; ties share the lowest rank; errored candidates rank last
	Err    error   // non-nil if any fold failed
}

func newCandidate(params Params, scores []float64, err error) Candidate {
	mean, std := stat.PopMeanStdDev(scores, nil)
	return Candidate{Params: params, Scores: scores, Mean: mean, Std: std, Err: err}
}

// Results holds every candidate in grid order.
type Results struct {
	Folds      int
	Candidates []Candidate
	best       int
}

// Best returns the candidate with the highest mean score among those that
// completed without error. Ties go to the first candidate in grid order.
// Best returns nil if every candidate errored.
func (r *Results) Best() *Candidate {
	if r.best < 0 || r.best >= len(r.Candidates) {
		return nil
	}
	return &r.Candidates[r.best]
}

// outranks reports whether a places strictly ahead of b.
func outranks(a, b Candidate) bool {
	if (a.Err == nil) != (b.Err == nil) {
		return a.Err == nil
	}
	return a.Mean > b.Mean
}

func (r *Results) rank() error {
	for i := range r.Candidates {
		above := 0
		for j := range r.Candidates {
			if outranks(r.Candidates[j], r.Candidates[i]) {
				above++
			}
		}
		r.Candidates[i].Rank = above + 1
	}

	r.best = -1
	for i, c := range r.Candidates {
		if c.Err != nil {
			continue
		}
		if r.best < 0 || c.Mean > r.Candidates[r.best].Mean {
			r.best = i
		}
	}
	if r.best < 0 {
		return ErrNoValidCandidate
	}
	return nil
}

// WriteCSV writes one row per candidate: a param_ column per key, a
// split column per fold, then mean, std, rank and error.
func (r *Results) WriteCSV(w io.Writer) error {
	var keys []string
	if len(r.Candidates) > 0 {
		keys = r.Candidates[0].Params.Keys()
	}

	header := make([]string, 0, len(keys)+r.Folds+4)
	for _, k := range keys {
		header = append(header, "param_"+k)
	}
	for f := range r.Folds {
		header = append(header, fmt.Sprintf("split%d_test_score", f))
	}
	header = append(header, "mean_test_score", "std_test_score", "rank_test_score", "error")

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, c := range r.Candidates {
		row := make([]string, 0, len(header))
		for _, k := range keys {
			row = append(row, formatFloat(c.Params[k]))
		}
		for _, s := range c.Scores {
			row = append(row, formatFloat(s))
		}
		errText := ""
		if c.Err != nil {
			errText = c.Err.Error()
		}
		row = append(row, formatFloat(c.Mean), formatFloat(c.Std), strconv.Itoa(c.Rank), errText)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
