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


package training

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/medseq/network"
)

// Verbosity selects how much training progress is printed.
type Verbosity int

const (
	// VerbositySilent prints nothing.
	VerbositySilent Verbosity = iota
	// VerbosityBatch rewrites a progress line after every batch.
	VerbosityBatch
	// VerbosityEpoch prints one line per epoch.
	VerbosityEpoch
)

// VerbosityFor returns VerbosityBatch for terminals and VerbosityEpoch
// otherwise, where carriage-return progress lines would flood a log.
func VerbosityFor(terminal bool) Verbosity {
	if terminal {
		return VerbosityBatch
	}
	return VerbosityEpoch
}

// ProgressTracker prints training progress to a writer.
type ProgressTracker struct {
	writer    io.Writer
	verbosity Verbosity
	epoch     int
	epochs    int
	batches   int
	startTime time.Time
	mu        sync.Mutex
}

var _ network.Progress = (*ProgressTracker)(nil)

// NewProgressTracker creates a tracker writing to writer.
func NewProgressTracker(writer io.Writer, verbosity Verbosity) *ProgressTracker {
	return &ProgressTracker{
		writer:    writer,
		verbosity: verbosity,
	}
}

// EpochBegin resets the tracker for a new epoch.
func (p *ProgressTracker) EpochBegin(epoch, epochs, batches int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.epoch = epoch
	p.epochs = epochs
	p.batches = batches
	p.startTime = time.Now()
}

// BatchEnd reports a finished batch.
func (p *ProgressTracker) BatchEnd(batch int, running network.Metrics) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.verbosity != VerbosityBatch {
		return
	}
	done := batch + 1
	rate := float64(done) / time.Since(p.startTime).Seconds()
	percentage := 0.0
	if p.batches > 0 {
		percentage = float64(done) / float64(p.batches) * 100.0
	}
	fmt.Fprintf(p.writer, "\rEpoch %d/%d: %d/%d (%.1f%%) - %.1f batches/s - loss: %.4f",
		p.epoch+1, p.epochs, done, p.batches, percentage, rate, running.Loss)
}

// EpochEnd reports a finished epoch.
func (p *ProgressTracker) EpochEnd(epoch int, metrics network.Metrics) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.verbosity {
	case VerbosityBatch:
		fmt.Fprintln(p.writer)
	case VerbositySilent:
		return
	}
	fmt.Fprintf(p.writer, "Epoch %d/%d - %.1fs - loss: %.4f - accuracy: %.4f - top10: %.4f - top30: %.4f\n",
		epoch+1, p.epochs, time.Since(p.startTime).Seconds(),
		metrics.Loss, metrics.Accuracy, metrics.Top10, metrics.Top30)
}
